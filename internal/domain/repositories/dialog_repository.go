package repositories

import (
	"context"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
)

// DialogRepository defines the interface for dialog bank access
type DialogRepository interface {
	// Create stores a new dialog
	Create(ctx context.Context, dialog *entities.Dialog) error

	// FindByCategory returns every dialog of a category, oldest first
	FindByCategory(ctx context.Context, category string) ([]*entities.Dialog, error)

	// FindExcludingCategory returns every dialog not in category
	FindExcludingCategory(ctx context.Context, category string) ([]*entities.Dialog, error)
}
