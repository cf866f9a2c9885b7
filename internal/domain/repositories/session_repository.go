package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
)

// SessionRepository defines the interface for interview session records
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entities.InterviewSession) error

	// FindByID returns entities.ErrSessionNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.InterviewSession, error)

	// MarkStarted records the script size and start time
	MarkStarted(ctx context.Context, id uuid.UUID, questionCount int, at time.Time) error

	// MarkEnded records the terminal status and entry count
	MarkEnded(ctx context.Context, id uuid.UUID, status entities.SessionStatus, entryCount int, at time.Time) error
}
