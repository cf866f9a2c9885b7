package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpmw "github.com/johnquangdev/mock-interview/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/mock-interview/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	questionHandler   *Question
	transcriptHandler *Transcript
	sessionHandler    *Session
	storageHandler    *Storage
	liveSessions      func() int
}

// NewRouter creates a new router with all handlers. liveSessions reports the
// number of sessions for the health check and may be nil.
func NewRouter(
	cfg *config.Config,
	questionHandler *Question,
	transcriptHandler *Transcript,
	sessionHandler *Session,
	storageHandler *Storage,
	liveSessions func() int,
) *Router {
	return &Router{
		cfg:               cfg,
		questionHandler:   questionHandler,
		transcriptHandler: transcriptHandler,
		sessionHandler:    sessionHandler,
		storageHandler:    storageHandler,
		liveSessions:      liveSessions,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1", httpmw.RequestID())

	rt.setupQuestionRoutes(v1)
	rt.setupTranscriptRoutes(v1)
	rt.setupSessionRoutes(v1)
	rt.setupStorageRoutes(v1)
}

// setupQuestionRoutes configures question bank routes
func (rt *Router) setupQuestionRoutes(g *echo.Group) {
	if rt.questionHandler == nil {
		g.GET("/questions", rt.notImplemented)
		g.POST("/dialogs", rt.notImplemented)
		return
	}
	g.GET("/questions", rt.questionHandler.GetQuestions)
	g.POST("/dialogs", rt.questionHandler.CreateDialog)
}

// setupTranscriptRoutes configures transcript archive routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	transcriptGroup := g.Group("/transcripts")

	if rt.transcriptHandler == nil {
		transcriptGroup.POST("", rt.notImplemented)
		transcriptGroup.GET("/:id", rt.notImplemented)
		return
	}
	transcriptGroup.POST("", rt.transcriptHandler.SaveTranscript)
	transcriptGroup.GET("/:id", rt.transcriptHandler.GetTranscript)
}

// setupSessionRoutes configures interview session routes
func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessionGroup := g.Group("/sessions")

	if rt.sessionHandler == nil {
		sessionGroup.Any("*", rt.notImplemented)
		return
	}
	sessionGroup.POST("", rt.sessionHandler.CreateSession)
	sessionGroup.GET("/:id", rt.sessionHandler.GetSession)
	sessionGroup.DELETE("/:id", rt.sessionHandler.DeleteSession)
	sessionGroup.GET("/:id/ws", rt.sessionHandler.Connect)
	sessionGroup.PUT("/:id/settings", rt.sessionHandler.UpdateSettings)
	sessionGroup.GET("/:id/transcript", rt.sessionHandler.GetTranscript)
	sessionGroup.GET("/:id/export", rt.sessionHandler.DownloadExport)
	sessionGroup.POST("/:id/export", rt.sessionHandler.UploadExport)
}

// setupStorageRoutes configures object storage inspection routes
func (rt *Router) setupStorageRoutes(g *echo.Group) {
	storageGroup := g.Group("/storage")

	if rt.storageHandler == nil {
		storageGroup.GET("/info", rt.notImplemented)
		storageGroup.GET("/exports", rt.notImplemented)
		return
	}
	storageGroup.GET("/info", rt.storageHandler.BucketInfo)
	storageGroup.GET("/exports", rt.storageHandler.ListExports)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	body := map[string]interface{}{
		"status": "ok",
	}
	if rt.cfg != nil {
		body["environment"] = rt.cfg.Server.Environment
	}
	if rt.liveSessions != nil {
		body["sessions"] = rt.liveSessions()
	}
	return c.JSON(http.StatusOK, body)
}
