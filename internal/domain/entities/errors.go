package entities

import "errors"

// Domain errors
var (
	// Dialog errors
	ErrEmptyCategory   = errors.New("dialog category is required")
	ErrEmptyDialogText = errors.New("dialog text is required")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Transcript errors
	ErrTranscriptNotFound = errors.New("transcript not found")
)
