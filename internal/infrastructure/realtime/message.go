package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

// Commands sent to the browser terminal
const (
	CmdSpeechSpeak      = "speech.speak"
	CmdSpeechCancel     = "speech.cancel"
	CmdSpeechPause      = "speech.pause"
	CmdSpeechResume     = "speech.resume"
	CmdAvatarSpeaking   = "avatar.speaking"
	CmdAvatarFade       = "avatar.fade"
	CmdAvatarIdle       = "avatar.idle"
	CmdRecognitionStart = "recognition.start"
	CmdRecognitionStop  = "recognition.stop"
	CmdMediaAudio       = "media.audio"
	CmdMediaVideo       = "media.video"
	CmdMediaRelease     = "media.release"
)

// UI events sent to the browser terminal
const (
	UIQuestionShow       = "question.show"
	UIQuestionHide       = "question.hide"
	UITimerTick          = "timer.tick"
	UITimerHide          = "timer.hide"
	UISessionState       = "session.state"
	UIEndConfirmRequired = "end.confirm_required"
	UIEndCancelled       = "end.cancelled"
	UIExportReady        = "export.ready"
	UIError              = "error"
	UIMuteState          = "mute.state"
	UIVideoState         = "video.state"
)

// Events received from the browser terminal
const (
	EvSpeechStart       = "speech.start"
	EvSpeechBoundary    = "speech.boundary"
	EvSpeechEnd         = "speech.end"
	EvSpeechError       = "speech.error"
	EvRecognitionResult = "recognition.result"
	EvRecognitionError  = "recognition.error"
	EvMediaReady        = "media.ready"
	EvMediaError        = "media.error"
	EvSessionStart      = "session.start"
	EvMuteToggle        = "mute.toggle"
	EvVideoToggle       = "video.toggle"
	EvEndRequest        = "end.request"
	EvEndConfirm        = "end.confirm"
	EvEndDecline        = "end.decline"
	EvSettingsUpdate    = "settings.update"
)

// Message is the websocket frame in both directions
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is a decoded client event
type Event struct {
	Type        string
	UtteranceID string
	Boundary    string
	Text        string
	Final       bool
	Message     string
	Settings    interview.UserSettings
}

type eventData struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Error      string   `json:"error"`
	Text       string   `json:"text"`
	Final      bool     `json:"final"`
	Message    string   `json:"message"`
	SpeechRate *float64 `json:"speech_rate"`
	Volume     *float64 `json:"volume"`
}

// DecodeEvent turns a client message into an Event
func DecodeEvent(msg Message) (Event, error) {
	ev := Event{Type: msg.Type}
	var data eventData
	if len(msg.Data) > 0 && string(msg.Data) != "null" {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return ev, fmt.Errorf("malformed %s payload: %w", msg.Type, err)
		}
	}

	switch msg.Type {
	case EvSpeechStart, EvSpeechEnd:
		ev.UtteranceID = data.ID
	case EvSpeechBoundary:
		ev.UtteranceID = data.ID
		ev.Boundary = data.Name
	case EvSpeechError:
		ev.UtteranceID = data.ID
		ev.Message = data.Error
	case EvRecognitionResult:
		ev.Text = data.Text
		ev.Final = data.Final
	case EvRecognitionError, EvMediaError:
		ev.Message = data.Error
		if ev.Message == "" {
			ev.Message = data.Message
		}
	case EvSettingsUpdate:
		ev.Settings = interview.DefaultSettings()
		if data.SpeechRate != nil {
			ev.Settings.SpeechRate = *data.SpeechRate
		}
		if data.Volume != nil {
			ev.Settings.Volume = *data.Volume
		}
	case EvMediaReady, EvSessionStart, EvMuteToggle, EvVideoToggle,
		EvEndRequest, EvEndConfirm, EvEndDecline:
	default:
		return ev, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return ev, nil
}
