package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Question bank errors
var (
	ErrNoIntroduction      = errors.New("no introduction dialog found")
	ErrMissingIntroduction = errors.New("session script has no introduction")
	ErrInvalidDialog       = errors.New("dialog text and category are required")
)

// Session errors
var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionAlreadyStarted = errors.New("session already started")
	ErrSessionClosed         = errors.New("session closed")
	ErrSessionNotActive      = errors.New("session has no active step to end")
	ErrNoEndPending          = errors.New("no end request pending")
	ErrInvalidSettings       = errors.New("speech rate must be positive and volume within [0, 1]")
	ErrEmptyUtterance        = errors.New("utterance text is empty")
)

// Capture errors
var (
	ErrMediaUnavailable = errors.New("media stream not available")
	ErrCaptureStopped   = errors.New("answer capture stopped")
)

// Transcript errors
var (
	ErrEmptyTranscript    = errors.New("no transcript provided")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrExportUnavailable  = errors.New("transcript export not ready")
	ErrStorageDisabled    = errors.New("object storage not configured")
)
