package transcript

// SaveTranscriptRequest represents a free-text transcript submission
type SaveTranscriptRequest struct {
	Transcript string `json:"transcript"`
}
