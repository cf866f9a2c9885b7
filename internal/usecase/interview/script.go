package interview

import (
	"strings"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
)

// DialogItem is one spoken line.
type DialogItem struct {
	Text string `json:"dialog"`
}

// SessionScript is the ordered material for one interview.
type SessionScript struct {
	Introduction *DialogItem
	Questions    []DialogItem
}

// Validate reports ErrMissingIntroduction when the introduction is absent.
func (s SessionScript) Validate() error {
	if s.Introduction == nil || strings.TrimSpace(s.Introduction.Text) == "" {
		return usecaseErrors.ErrMissingIntroduction
	}
	return nil
}
