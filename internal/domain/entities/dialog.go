package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryIntroduction marks the dialog spoken before the first question
const CategoryIntroduction = "introduction"

// Dialog is one line of the interview bank
type Dialog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Category  string    `json:"category" gorm:"type:varchar(100);not null;index"`
	Text      string    `json:"dialog" gorm:"column:text;type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Dialog) TableName() string {
	return "dialogs"
}

// NewDialog creates a new dialog
func NewDialog(category, text string) *Dialog {
	return &Dialog{
		ID:        uuid.New(),
		Category:  strings.ToLower(strings.TrimSpace(category)),
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now(),
	}
}

// IsIntroduction reports whether the dialog opens the interview
func (d *Dialog) IsIntroduction() bool {
	return d.Category == CategoryIntroduction
}

// Validate checks required fields
func (d *Dialog) Validate() error {
	if d.Category == "" {
		return ErrEmptyCategory
	}
	if d.Text == "" {
		return ErrEmptyDialogText
	}
	return nil
}
