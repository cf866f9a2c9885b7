package presenter

import (
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/session"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	sessionUsecase "github.com/johnquangdev/mock-interview/internal/usecase/session"
)

// ToSettingsResponse converts user settings to SettingsResponse DTO
func ToSettingsResponse(s interview.UserSettings) session.SettingsResponse {
	return session.SettingsResponse{
		SpeechRate: s.SpeechRate,
		Volume:     s.Volume,
	}
}

// ToSessionResponse converts a session snapshot to SessionResponse DTO
func ToSessionResponse(snap sessionUsecase.Snapshot) *session.SessionResponse {
	return &session.SessionResponse{
		ID:              snap.ID.String(),
		State:           snap.State.String(),
		QuestionIndex:   snap.Cursor,
		CurrentQuestion: snap.Question,
		Remaining:       snap.Remaining,
		Settings:        ToSettingsResponse(snap.Settings),
		MicOn:           snap.MicOn,
		CameraOn:        snap.CameraOn,
		Connected:       snap.Connected,
		Entries:         len(snap.Entries),
		CreatedAt:       snap.CreatedAt,
	}
}

// ToSessionTranscriptResponse converts a session snapshot to its transcript DTO
func ToSessionTranscriptResponse(snap sessionUsecase.Snapshot) *session.SessionTranscriptResponse {
	return &session.SessionTranscriptResponse{
		SessionID: snap.ID.String(),
		State:     snap.State.String(),
		Entries:   ToEntryResponses(snap.Entries),
		Text:      interview.FormatText(snap.Entries),
	}
}
