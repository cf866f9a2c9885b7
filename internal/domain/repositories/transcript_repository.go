package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
)

// TranscriptRepository defines the interface for archived transcript access
type TranscriptRepository interface {
	// Create stores a new transcript
	Create(ctx context.Context, transcript *entities.ArchivedTranscript) error

	// FindByID returns entities.ErrTranscriptNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ArchivedTranscript, error)

	// DeleteExpired removes transcripts whose expiry is at or before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
