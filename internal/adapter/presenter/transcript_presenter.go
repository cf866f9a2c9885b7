package presenter

import (
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/common"
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/transcript"
	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

// ToTranscriptResponse converts an ArchivedTranscript entity to TranscriptResponse DTO
func ToTranscriptResponse(t *entities.ArchivedTranscript) *transcript.TranscriptResponse {
	if t == nil {
		return nil
	}

	pairs := t.Pairs()
	entries := make([]*common.TranscriptEntryResponse, len(pairs))
	for i, p := range pairs {
		entries[i] = &common.TranscriptEntryResponse{Question: p.Question, Answer: p.Answer}
	}

	response := &transcript.TranscriptResponse{
		ID:         t.ID.String(),
		Transcript: t.Text,
		Entries:    entries,
		CreatedAt:  t.CreatedAt,
		ExpiresAt:  t.ExpiresAt,
	}

	if t.SessionID != nil {
		sessionID := t.SessionID.String()
		response.SessionID = &sessionID
	}

	return response
}

// ToEntryResponses converts transcript entries to their DTOs
func ToEntryResponses(entries []interview.TranscriptEntry) []*common.TranscriptEntryResponse {
	out := make([]*common.TranscriptEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = &common.TranscriptEntryResponse{Question: e.Question, Answer: e.Answer}
	}
	return out
}
