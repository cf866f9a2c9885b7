package session

// UpdateSettingsRequest represents the speech settings form. Missing,
// zero or negative values fall back to 1.
type UpdateSettingsRequest struct {
	SpeechRate *float64 `json:"speech_rate" validate:"omitempty"`
	Volume     *float64 `json:"volume" validate:"omitempty,min=0,max=1"`
}
