package session

import (
	"time"

	"github.com/johnquangdev/mock-interview/internal/adapter/dto/common"
)

// SettingsResponse represents speech settings
type SettingsResponse struct {
	SpeechRate float64 `json:"speech_rate"`
	Volume     float64 `json:"volume"`
}

// SessionResponse represents a live session
type SessionResponse struct {
	ID              string           `json:"id"`
	State           string           `json:"state"`
	QuestionIndex   int              `json:"question_index"`
	CurrentQuestion string           `json:"current_question,omitempty"`
	Remaining       int              `json:"remaining_seconds"`
	Settings        SettingsResponse `json:"settings"`
	MicOn           bool             `json:"mic_on"`
	CameraOn        bool             `json:"camera_on"`
	Connected       bool             `json:"connected"`
	Entries         int              `json:"entries"`
	CreatedAt       time.Time        `json:"created_at"`
}

// CreateSessionResponse is returned when a session is created
type CreateSessionResponse struct {
	Session      *SessionResponse `json:"session"`
	WebsocketURL string           `json:"websocket_url"`
}

// SessionTranscriptResponse represents the transcript of a session so far
type SessionTranscriptResponse struct {
	SessionID string                            `json:"session_id"`
	State     string                            `json:"state"`
	Entries   []*common.TranscriptEntryResponse `json:"entries"`
	Text      string                            `json:"text"`
}

// ExportResponse is returned after a transcript document is uploaded
type ExportResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	FileName  string `json:"file_name"`
}
