package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/errors"
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/common"
	httpmw "github.com/johnquangdev/mock-interview/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
)

// getRequestID reads the ID set by the RequestID middleware
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return httpmw.GetRequestID(c)
}

// parseIDParam reads a UUID path parameter
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("Invalid " + name + " format")
	}
	return id, nil
}

// toAppError translates use case errors into their HTTP form. id names the
// resource the request addressed and may be empty.
func toAppError(err error, id string) (errors.AppError, bool) {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr, true
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrNoIntroduction),
		stdErrors.Is(err, usecaseErrors.ErrMissingIntroduction):
		return errors.ErrNoIntroduction(), true
	case stdErrors.Is(err, usecaseErrors.ErrInvalidDialog):
		return errors.ErrValidationFailed(err), true
	case stdErrors.Is(err, usecaseErrors.ErrEmptyTranscript):
		return errors.ErrTranscriptEmpty(), true
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptNotFound):
		return errors.ErrTranscriptNotFound(id), true
	case stdErrors.Is(err, usecaseErrors.ErrSessionNotFound):
		return errors.ErrSessionNotFound(id), true
	case stdErrors.Is(err, usecaseErrors.ErrSessionAlreadyStarted):
		return errors.ErrSessionInvalidState(id, "started"), true
	case stdErrors.Is(err, usecaseErrors.ErrSessionClosed):
		return errors.ErrSessionInvalidState(id, "closed"), true
	case stdErrors.Is(err, usecaseErrors.ErrInvalidSettings):
		return errors.ErrInvalidSettings(err), true
	case stdErrors.Is(err, usecaseErrors.ErrExportUnavailable):
		return errors.ErrExportUnavailable(id), true
	case stdErrors.Is(err, usecaseErrors.ErrStorageDisabled):
		return errors.ErrStorageDisabled(), true
	}
	return errors.AppError{}, false
}

// handleUsecaseError renders err, using fallback for errors with no HTTP mapping
func handleUsecaseError(logger *zap.Logger, c echo.Context, err error, id string, fallback func(error) errors.AppError) error {
	if appErr, ok := toAppError(err, id); ok {
		return HandleError(logger, c, appErr)
	}
	if fallback != nil {
		return HandleError(logger, c, fallback(err))
	}
	return HandleError(logger, c, err)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respondSuccess(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respondSuccess(logger, c, http.StatusCreated, data)
}

func respondSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := common.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := common.ErrorResponse{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}
