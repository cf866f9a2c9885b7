package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/errors"
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/transcript"
	"github.com/johnquangdev/mock-interview/internal/adapter/presenter"
	transcriptUsecase "github.com/johnquangdev/mock-interview/internal/usecase/transcript"
)

// Transcript handles transcript archive HTTP requests
type Transcript struct {
	transcriptService transcriptUsecase.Service
	logger            *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(transcriptService transcriptUsecase.Service, logger *zap.Logger) *Transcript {
	return &Transcript{
		transcriptService: transcriptService,
		logger:            logger,
	}
}

// SaveTranscript handles POST /transcripts
// @Summary      Save a transcript
// @Description  Stores a free-text transcript for 24 hours
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        request  body      transcript.SaveTranscriptRequest  true  "Transcript"
// @Success      201      {object}  transcript.SaveTranscriptResponse  "Transcript saved"
// @Failure      400      {object}  map[string]interface{}  "No transcript provided"
// @Failure      500      {object}  map[string]interface{}  "Failed to save transcript"
// @Router       /transcripts [post]
func (h *Transcript) SaveTranscript(c echo.Context) error {
	var req transcript.SaveTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	saved, err := h.transcriptService.Save(c.Request().Context(), req.Transcript)
	if err != nil {
		return handleUsecaseError(h.logger, c, err, "", func(err error) errors.AppError {
			return errors.ErrDBQueryFailed("save transcript", err)
		})
	}

	return HandleCreated(h.logger, c, &transcript.SaveTranscriptResponse{
		Message:   "Transcript saved successfully",
		ID:        saved.ID.String(),
		ExpiresAt: saved.ExpiresAt,
	})
}

// GetTranscript handles GET /transcripts/:id
// @Summary      Get a transcript
// @Description  Returns an archived transcript that has not expired
// @Tags         Transcripts
// @Produce      json
// @Param        id   path      string  true  "Transcript ID (UUID)"
// @Success      200  {object}  transcript.TranscriptResponse  "Transcript"
// @Failure      400  {object}  map[string]interface{}  "Invalid transcript ID"
// @Failure      404  {object}  map[string]interface{}  "Transcript not found or expired"
// @Router       /transcripts/{id} [get]
func (h *Transcript) GetTranscript(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	found, err := h.transcriptService.Get(c.Request().Context(), id)
	if err != nil {
		return handleUsecaseError(h.logger, c, err, id.String(), errors.ErrInternal)
	}

	return HandleSuccess(h.logger, c, presenter.ToTranscriptResponse(found))
}
