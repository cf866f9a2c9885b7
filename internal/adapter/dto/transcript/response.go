package transcript

import (
	"time"

	"github.com/johnquangdev/mock-interview/internal/adapter/dto/common"
)

// SaveTranscriptResponse is returned after a transcript is stored
type SaveTranscriptResponse struct {
	Message   string    `json:"message"`
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TranscriptResponse represents an archived transcript
type TranscriptResponse struct {
	ID         string                            `json:"id"`
	SessionID  *string                           `json:"session_id,omitempty"`
	Transcript string                            `json:"transcript"`
	Entries    []*common.TranscriptEntryResponse `json:"entries"`
	CreatedAt  time.Time                         `json:"created_at"`
	ExpiresAt  time.Time                         `json:"expires_at"`
}
