package handler

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/errors"
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/session"
	"github.com/johnquangdev/mock-interview/internal/adapter/presenter"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/export"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/realtime"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	sessionUsecase "github.com/johnquangdev/mock-interview/internal/usecase/session"
)

// Session handles interview session HTTP and websocket requests
type Session struct {
	manager  *sessionUsecase.Manager
	exporter *sessionUsecase.Exporter
	language string
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler. Websocket upgrades are
// accepted from allowedOrigins; "*" accepts any origin.
func NewSessionHandler(
	manager *sessionUsecase.Manager,
	exporter *sessionUsecase.Exporter,
	language string,
	allowedOrigins []string,
	logger *zap.Logger,
) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		manager:  manager,
		exporter: exporter,
		language: language,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// CreateSession handles POST /sessions
// @Summary      Create an interview session
// @Description  Registers an idle session; the browser then opens the websocket to run it
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  session.CreateSessionResponse  "Session created"
// @Failure      500  {object}  map[string]interface{}  "Failed to create session"
// @Router       /sessions [post]
func (h *Session) CreateSession(c echo.Context) error {
	s, err := h.manager.Create(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("create session", err))
	}

	snap, err := s.Snapshot()
	if err != nil {
		return handleUsecaseError(h.logger, c, err, s.ID().String(), errors.ErrInternal)
	}

	return HandleCreated(h.logger, c, &session.CreateSessionResponse{
		Session:      presenter.ToSessionResponse(snap),
		WebsocketURL: fmt.Sprintf("/v1/sessions/%s/ws", s.ID()),
	})
}

// GetSession handles GET /sessions/:id
// @Summary      Get session state
// @Description  Returns the sequencer state, countdown and settings of a live session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  session.SessionResponse  "Session"
// @Failure      400  {object}  map[string]interface{}  "Invalid session ID"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id} [get]
func (h *Session) GetSession(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		return handleUsecaseError(h.logger, c, err, s.ID().String(), errors.ErrInternal)
	}

	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(snap))
}

// Connect handles GET /sessions/:id/ws
// @Summary      Open the session websocket
// @Description  Upgrades to a websocket that carries speech, avatar, media and UI messages for the session
// @Tags         Sessions
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      101  "Switching protocols"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/ws [get]
func (h *Session) Connect(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id := s.ID()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("⚠️ Websocket upgrade failed",
			zap.String("session_id", id.String()),
			zap.Error(err))
		return nil
	}

	term := realtime.NewTerminal(conn, h.language, h.logger)
	h.logger.Info("🔌 Websocket connected", zap.String("session_id", id.String()))

	err = h.manager.Connect(id, term)
	switch {
	case stdErrors.Is(err, usecaseErrors.ErrSessionAlreadyStarted):
		term.Error("Session already has a connected client")
		term.Close()
	case stdErrors.Is(err, usecaseErrors.ErrSessionNotFound),
		stdErrors.Is(err, usecaseErrors.ErrSessionClosed):
		term.Error("Session is no longer available")
		term.Close()
	case err != nil:
		h.logger.Warn("⚠️ Websocket closed with error",
			zap.String("session_id", id.String()),
			zap.Error(err))
	default:
		h.logger.Info("🔌 Websocket disconnected", zap.String("session_id", id.String()))
	}
	return nil
}

// UpdateSettings handles PUT /sessions/:id/settings
// @Summary      Update speech settings
// @Description  Sets speech rate and volume for the next utterance; missing or non-positive values fall back to 1
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Session ID (UUID)"
// @Param        request  body      session.UpdateSettingsRequest  true  "Speech settings"
// @Success      200      {object}  session.SettingsResponse  "Settings applied"
// @Failure      400      {object}  map[string]interface{}  "Invalid settings"
// @Failure      404      {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/settings [put]
func (h *Session) UpdateSettings(c echo.Context) error {
	var req session.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidSettings(err))
	}

	s, err := h.lookup(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	settings := interview.DefaultSettings()
	if req.SpeechRate != nil {
		settings.SpeechRate = *req.SpeechRate
	}
	if req.Volume != nil {
		settings.Volume = *req.Volume
	}

	applied, err := s.UpdateSettings(settings)
	if err != nil {
		return handleUsecaseError(h.logger, c, err, s.ID().String(), errors.ErrInternal)
	}

	return HandleSuccess(h.logger, c, presenter.ToSettingsResponse(applied))
}

// GetTranscript handles GET /sessions/:id/transcript
// @Summary      Get session transcript
// @Description  Returns the question and answer pairs recorded so far
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  session.SessionTranscriptResponse  "Transcript"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id}/transcript [get]
func (h *Session) GetTranscript(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		return handleUsecaseError(h.logger, c, err, s.ID().String(), errors.ErrInternal)
	}

	return HandleSuccess(h.logger, c, presenter.ToSessionTranscriptResponse(snap))
}

// DownloadExport handles GET /sessions/:id/export
// @Summary      Download transcript PDF
// @Description  Streams the transcript of a completed session as a PDF document
// @Tags         Sessions
// @Produce      application/pdf
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {file}    file  "Transcript document"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Failure      409  {object}  map[string]interface{}  "Interview has not ended"
// @Router       /sessions/{id}/export [get]
func (h *Session) DownloadExport(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	entries, err := s.CompletedTranscript()
	if err != nil {
		return handleUsecaseError(h.logger, c, err, s.ID().String(), errors.ErrInternal)
	}

	var buf bytes.Buffer
	if err := h.exporter.WritePDF(entries, &buf); err != nil {
		return HandleError(h.logger, c, errors.ErrExportFailed("pdf", err))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

// UploadExport handles POST /sessions/:id/export
// @Summary      Publish transcript PDF
// @Description  Uploads the transcript of a completed session to object storage and returns a presigned URL
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  session.ExportResponse  "Transcript uploaded"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Failure      409  {object}  map[string]interface{}  "Interview has not ended"
// @Failure      501  {object}  map[string]interface{}  "Object storage not configured"
// @Router       /sessions/{id}/export [post]
func (h *Session) UploadExport(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id := s.ID()

	if !h.exporter.CanUpload() {
		return HandleError(h.logger, c, errors.ErrStorageDisabled())
	}

	entries, err := s.CompletedTranscript()
	if err != nil {
		return handleUsecaseError(h.logger, c, err, id.String(), errors.ErrInternal)
	}

	url, err := h.exporter.UploadPDF(c.Request().Context(), id, entries)
	if err != nil {
		return handleUsecaseError(h.logger, c, err, id.String(), func(err error) errors.AppError {
			return errors.ErrStorageFailed("upload transcript", err)
		})
	}

	return HandleSuccess(h.logger, c, &session.ExportResponse{
		SessionID: id.String(),
		URL:       url,
		FileName:  export.FileName,
	})
}

// DeleteSession handles DELETE /sessions/:id
// @Summary      End a session
// @Description  Closes the session and its websocket; unfinished interviews are recorded as abandoned
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}  "Session closed"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id} [delete]
func (h *Session) DeleteSession(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.manager.Close(id); err != nil {
		return handleUsecaseError(h.logger, c, err, id.String(), errors.ErrInternal)
	}

	return HandleSuccess(h.logger, c, map[string]string{
		"message":    "Session closed",
		"session_id": id.String(),
	})
}

// lookup resolves the :id parameter to a live session
func (h *Session) lookup(c echo.Context) (*sessionUsecase.Session, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	s, err := h.manager.Get(id)
	if err != nil {
		if appErr, ok := toAppError(err, id.String()); ok {
			return nil, appErr
		}
		return nil, errors.ErrInternal(err)
	}
	return s, nil
}
