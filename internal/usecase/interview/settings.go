package interview

import (
	"fmt"
	"math"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
)

// UserSettings are read by the playback controller at the start of each utterance.
type UserSettings struct {
	SpeechRate float64 `json:"speech_rate"`
	Volume     float64 `json:"volume"`
}

// DefaultSettings returns rate 1 and full volume.
func DefaultSettings() UserSettings {
	return UserSettings{SpeechRate: 1, Volume: 1}
}

// Normalize replaces a zero, negative or NaN rate with 1 and a NaN volume with 1.
func (s UserSettings) Normalize() UserSettings {
	if s.SpeechRate <= 0 || math.IsNaN(s.SpeechRate) || math.IsInf(s.SpeechRate, 0) {
		s.SpeechRate = 1
	}
	if math.IsNaN(s.Volume) {
		s.Volume = 1
	}
	return s
}

func (s UserSettings) Validate() error {
	if s.SpeechRate <= 0 || math.IsNaN(s.SpeechRate) || math.IsInf(s.SpeechRate, 0) {
		return fmt.Errorf("speech rate %v: %w", s.SpeechRate, usecaseErrors.ErrInvalidSettings)
	}
	if s.Volume < 0 || s.Volume > 1 || math.IsNaN(s.Volume) {
		return fmt.Errorf("volume %v: %w", s.Volume, usecaseErrors.ErrInvalidSettings)
	}
	return nil
}
