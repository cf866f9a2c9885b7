package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
)

// SessionRepository implements the session repository interface using GORM
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *entities.InterviewSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID finds a session by ID
func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.InterviewSession, error) {
	var session entities.InterviewSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return &session, nil
}

// MarkStarted records the question count and start time
func (r *SessionRepository) MarkStarted(ctx context.Context, id uuid.UUID, questionCount int, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         entities.SessionStatusRunning,
			"question_count": questionCount,
			"started_at":     at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark session started: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrSessionNotFound
	}
	return nil
}

// MarkEnded records the terminal status of a session
func (r *SessionRepository) MarkEnded(ctx context.Context, id uuid.UUID, status entities.SessionStatus, entryCount int, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"entry_count": entryCount,
			"ended_at":    at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark session ended: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrSessionNotFound
	}
	return nil
}
