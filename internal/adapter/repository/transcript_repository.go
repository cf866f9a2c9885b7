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

// TranscriptRepository handles archived transcript data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create stores a new transcript
func (r *TranscriptRepository) Create(ctx context.Context, transcript *entities.ArchivedTranscript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(transcript).Error; err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	return nil
}

// FindByID retrieves a transcript by ID
func (r *TranscriptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ArchivedTranscript, error) {
	var transcript entities.ArchivedTranscript
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to find transcript by ID: %w", err)
	}
	return &transcript, nil
}

// DeleteExpired removes transcripts past their expiry
func (r *TranscriptRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&entities.ArchivedTranscript{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired transcripts: %w", result.Error)
	}
	return result.RowsAffected, nil
}
