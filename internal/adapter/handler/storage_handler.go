package handler

import (
	"context"
	"path"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/errors"
)

// BucketInspector reads the state of the export bucket
type BucketInspector interface {
	GetBucketInfo(ctx context.Context) (map[string]interface{}, error)
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}

// Storage handles object storage inspection endpoints
type Storage struct {
	bucket BucketInspector
	logger *zap.Logger
}

// NewStorageHandler creates a new storage handler. bucket is nil when object
// storage is disabled.
func NewStorageHandler(bucket BucketInspector, logger *zap.Logger) *Storage {
	return &Storage{
		bucket: bucket,
		logger: logger,
	}
}

// BucketInfo returns bucket connection info
// @Summary      Export bucket info
// @Description  Get information about the MinIO bucket that holds exported transcripts
// @Tags         Storage
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Bucket info"
// @Failure      500  {object}  map[string]interface{}  "Failed to get bucket info"
// @Failure      501  {object}  map[string]interface{}  "Object storage not configured"
// @Router       /storage/info [get]
func (h *Storage) BucketInfo(c echo.Context) error {
	if h.bucket == nil {
		return HandleError(h.logger, c, errors.ErrStorageDisabled())
	}
	ctx := c.Request().Context()

	info, err := h.bucket.GetBucketInfo(ctx)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to get bucket info", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrStorageFailed("bucket info", err))
	}

	if h.logger != nil {
		h.logger.Info("bucket info retrieved", zap.Any("info", info))
	}

	return HandleSuccess(h.logger, c, info)
}

// ListExports lists exported transcript documents
// @Summary      List exported transcripts
// @Description  List transcript documents in the bucket, optionally for one session
// @Tags         Storage
// @Produce      json
// @Param        session_id  query  string  false  "Session ID (UUID)"
// @Success      200         {object}  map[string]interface{}  "File list"
// @Failure      400         {object}  map[string]interface{}  "Invalid session ID"
// @Failure      500         {object}  map[string]interface{}  "Failed to list files"
// @Failure      501         {object}  map[string]interface{}  "Object storage not configured"
// @Router       /storage/exports [get]
func (h *Storage) ListExports(c echo.Context) error {
	if h.bucket == nil {
		return HandleError(h.logger, c, errors.ErrStorageDisabled())
	}
	ctx := c.Request().Context()

	prefix := "transcripts/"
	if sessionID := c.QueryParam("session_id"); sessionID != "" {
		id, err := uuid.Parse(sessionID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid session_id format"))
		}
		prefix = path.Join("transcripts", id.String()) + "/"
	}

	files, err := h.bucket.ListFiles(ctx, prefix)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to list files", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrStorageFailed("list files", err))
	}

	if h.logger != nil {
		h.logger.Info("files listed",
			zap.String("prefix", prefix),
			zap.Int("count", len(files)))
	}

	if files == nil {
		files = []string{}
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"files":  files,
		"count":  len(files),
		"prefix": prefix,
	})
}
