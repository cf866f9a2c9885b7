package interview

import (
	"context"
	"time"
)

// Utterance is one speak command sent to the speech engine.
type Utterance struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Rate   float64 `json:"rate"`
	Volume float64 `json:"volume"`
	Lang   string  `json:"lang"`
}

// SpeechEngine synthesizes utterances. Lifecycle events (start, word boundary,
// end, error) are reported back through the Sequencer's Handle* methods.
type SpeechEngine interface {
	Speak(u Utterance) error
	Cancel()
	Pause()
	Resume()
}

// Renderer shows the avatar.
type Renderer interface {
	ShowSpeaking()
	CrossFade(d time.Duration)
	ShowIdle()
}

// Recognizer controls continuous speech-to-text.
type Recognizer interface {
	Start() error
	Stop() error
}

// Media controls the local camera and microphone tracks.
type Media interface {
	SetAudioEnabled(enabled bool)
	SetVideoEnabled(enabled bool)
	Release()
}

// Observer receives user-facing notifications.
type Observer interface {
	QuestionShown(text string)
	QuestionHidden()
	TimerTick(seconds int)
	TimerHidden()
	StateChanged(from, to State)
	EndConfirmationRequired()
	EndCancelled()
	ExportReady(entries int)
	Error(message string)
	MuteChanged(micOn bool)
	VideoChanged(cameraOn bool)
}

// ScriptProvider fetches the session script.
type ScriptProvider interface {
	FetchScript(ctx context.Context) (SessionScript, error)
}

// Archiver persists a completed transcript. Archive must not block the caller.
type Archiver interface {
	Archive(entries []TranscriptEntry)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) QuestionShown(string)      {}
func (NopObserver) QuestionHidden()           {}
func (NopObserver) TimerTick(int)             {}
func (NopObserver) TimerHidden()              {}
func (NopObserver) StateChanged(State, State) {}
func (NopObserver) EndConfirmationRequired()  {}
func (NopObserver) EndCancelled()             {}
func (NopObserver) ExportReady(int)           {}
func (NopObserver) Error(string)              {}
func (NopObserver) MuteChanged(bool)          {}
func (NopObserver) VideoChanged(bool)         {}
