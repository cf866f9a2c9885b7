package session

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/internal/infrastructure/export"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/storage"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

// DocumentRenderer writes a transcript document
type DocumentRenderer interface {
	Render(entries []interview.TranscriptEntry, w io.Writer) error
}

// Uploader stores a document and returns a URL it can be fetched from
type Uploader interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// Exporter renders completed transcripts and optionally publishes them
type Exporter struct {
	renderer DocumentRenderer
	uploader Uploader
	logger   *zap.Logger
}

// NewExporter creates an exporter. uploader may be nil when object storage
// is not configured.
func NewExporter(renderer DocumentRenderer, uploader Uploader, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{renderer: renderer, uploader: uploader, logger: logger}
}

// CanUpload reports whether UploadPDF is available
func (e *Exporter) CanUpload() bool { return e.uploader != nil }

// WritePDF renders entries as a PDF document into w
func (e *Exporter) WritePDF(entries []interview.TranscriptEntry, w io.Writer) error {
	if err := e.renderer.Render(entries, w); err != nil {
		return fmt.Errorf("failed to render transcript: %w", err)
	}
	return nil
}

// UploadPDF renders entries and stores them under the session's transcript key
func (e *Exporter) UploadPDF(ctx context.Context, sessionID uuid.UUID, entries []interview.TranscriptEntry) (string, error) {
	if e.uploader == nil {
		return "", usecaseErrors.ErrStorageDisabled
	}

	var buf bytes.Buffer
	if err := e.WritePDF(entries, &buf); err != nil {
		return "", err
	}

	objectName := storage.TranscriptObjectName(sessionID.String(), "pdf")
	url, err := e.uploader.UploadBytes(ctx, objectName, buf.Bytes(), export.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}

	e.logger.Info("✅ Transcript exported",
		zap.String("session_id", sessionID.String()),
		zap.String("object", objectName),
		zap.Int("bytes", buf.Len()),
	)
	return url, nil
}
