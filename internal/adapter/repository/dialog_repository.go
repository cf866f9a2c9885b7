package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
)

// DialogRepository implements the dialog repository interface using GORM
type DialogRepository struct {
	db *gorm.DB
}

// NewDialogRepository creates a new dialog repository
func NewDialogRepository(db *gorm.DB) *DialogRepository {
	return &DialogRepository{db: db}
}

// Create creates a new dialog
func (r *DialogRepository) Create(ctx context.Context, dialog *entities.Dialog) error {
	if err := r.db.WithContext(ctx).Create(dialog).Error; err != nil {
		return fmt.Errorf("failed to create dialog: %w", err)
	}
	return nil
}

// FindByCategory returns every dialog of a category
func (r *DialogRepository) FindByCategory(ctx context.Context, category string) ([]*entities.Dialog, error) {
	var dialogs []*entities.Dialog
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at ASC").
		Find(&dialogs).Error; err != nil {
		return nil, fmt.Errorf("failed to find dialogs by category: %w", err)
	}
	return dialogs, nil
}

// FindExcludingCategory returns every dialog outside a category
func (r *DialogRepository) FindExcludingCategory(ctx context.Context, category string) ([]*entities.Dialog, error) {
	var dialogs []*entities.Dialog
	if err := r.db.WithContext(ctx).
		Where("category <> ?", category).
		Order("created_at ASC").
		Find(&dialogs).Error; err != nil {
		return nil, fmt.Errorf("failed to find dialogs: %w", err)
	}
	return dialogs, nil
}
