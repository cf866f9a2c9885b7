package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptPair is one question and its captured answer
type TranscriptPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ArchivedTranscript is a transcript kept for a limited retention period
type ArchivedTranscript struct {
	ID        uuid.UUID                            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID *uuid.UUID                           `json:"session_id,omitempty" gorm:"type:uuid;index"`
	Text      string                               `json:"transcript" gorm:"type:text;not null"`
	Entries   datatypes.JSONType[[]TranscriptPair] `json:"entries" gorm:"type:jsonb"`
	CreatedAt time.Time                            `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt time.Time                            `json:"expires_at" gorm:"type:timestamp;not null;index"`
}

// TableName specifies the table name for GORM
func (ArchivedTranscript) TableName() string {
	return "archived_transcripts"
}

// NewArchivedTranscript creates a transcript that expires retention after now
func NewArchivedTranscript(text string, pairs []TranscriptPair, now time.Time, retention time.Duration) *ArchivedTranscript {
	if pairs == nil {
		pairs = []TranscriptPair{}
	}
	return &ArchivedTranscript{
		ID:        uuid.New(),
		Text:      strings.TrimSpace(text),
		Entries:   datatypes.NewJSONType(pairs),
		CreatedAt: now,
		ExpiresAt: now.Add(retention),
	}
}

// WithSession links the transcript to the interview session that produced it
func (t *ArchivedTranscript) WithSession(sessionID uuid.UUID) *ArchivedTranscript {
	t.SessionID = &sessionID
	return t
}

// IsExpired checks if the transcript passed its retention period
func (t *ArchivedTranscript) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Pairs returns the structured entries
func (t *ArchivedTranscript) Pairs() []TranscriptPair {
	return t.Entries.Data()
}
