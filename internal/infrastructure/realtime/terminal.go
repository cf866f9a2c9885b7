package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

const (
	maxMessageSize = 64 * 1024
	writeWait      = 10 * time.Second
)

// Terminal is the browser end of one interview session. It sends speech,
// avatar, recognition, media and UI commands over a websocket and decodes
// the events the browser reports back.
type Terminal struct {
	conn   *websocket.Conn
	lang   string
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewTerminal wraps an upgraded websocket connection
func NewTerminal(conn *websocket.Conn, lang string, logger *zap.Logger) *Terminal {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn.SetReadLimit(maxMessageSize)
	return &Terminal{conn: conn, lang: lang, logger: logger}
}

// Send writes one message. Writes are serialized.
func (t *Terminal) Send(msgType string, data interface{}) error {
	msg := Message{Type: msgType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", msgType, err)
		}
		msg.Data = raw
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return usecaseErrors.ErrSessionClosed
	}
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := t.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msgType, err)
	}
	return nil
}

// notify sends a command whose failure cannot be reported to the caller
func (t *Terminal) notify(msgType string, data interface{}) {
	if err := t.Send(msgType, data); err != nil && !errors.Is(err, usecaseErrors.ErrSessionClosed) {
		t.logger.Warn("⚠️ Failed to reach terminal", zap.String("type", msgType), zap.Error(err))
	}
}

// ReadLoop decodes client events and hands them to handle until the
// connection closes. A normal close returns nil.
func (t *Terminal) ReadLoop(handle func(Event)) error {
	for {
		var msg Message
		if err := t.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || t.isClosed() {
				return nil
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				t.logger.Warn("⚠️ Dropping malformed frame", zap.Error(err))
				continue
			}
			return fmt.Errorf("websocket read: %w", err)
		}

		ev, err := DecodeEvent(msg)
		if err != nil {
			t.logger.Warn("⚠️ Ignoring client event", zap.String("type", msg.Type), zap.Error(err))
			continue
		}
		handle(ev)
	}
}

// Close sends a close frame and closes the connection. It is safe to call
// more than once.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	_ = t.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
		time.Now().Add(writeWait),
	)
	return t.conn.Close()
}

func (t *Terminal) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Speech engine

func (t *Terminal) Speak(u interview.Utterance) error { return t.Send(CmdSpeechSpeak, u) }
func (t *Terminal) Cancel()                           { t.notify(CmdSpeechCancel, nil) }
func (t *Terminal) Pause()                            { t.notify(CmdSpeechPause, nil) }
func (t *Terminal) Resume()                           { t.notify(CmdSpeechResume, nil) }

// Avatar renderer

func (t *Terminal) ShowSpeaking() { t.notify(CmdAvatarSpeaking, nil) }
func (t *Terminal) ShowIdle()     { t.notify(CmdAvatarIdle, nil) }

func (t *Terminal) CrossFade(d time.Duration) {
	t.notify(CmdAvatarFade, map[string]int64{"duration_ms": d.Milliseconds()})
}

// Recognizer

type recognitionOptions struct {
	Lang           string `json:"lang"`
	Continuous     bool   `json:"continuous"`
	InterimResults bool   `json:"interim_results"`
}

func (t *Terminal) Start() error {
	return t.Send(CmdRecognitionStart, recognitionOptions{Lang: t.lang, Continuous: true})
}

func (t *Terminal) Stop() error { return t.Send(CmdRecognitionStop, nil) }

// Media

func (t *Terminal) SetAudioEnabled(enabled bool) {
	t.notify(CmdMediaAudio, map[string]bool{"enabled": enabled})
}

func (t *Terminal) SetVideoEnabled(enabled bool) {
	t.notify(CmdMediaVideo, map[string]bool{"enabled": enabled})
}

func (t *Terminal) Release() { t.notify(CmdMediaRelease, nil) }

// Observer

func (t *Terminal) QuestionShown(text string) {
	t.notify(UIQuestionShow, map[string]string{"text": text})
}

func (t *Terminal) QuestionHidden()       { t.notify(UIQuestionHide, nil) }
func (t *Terminal) TimerTick(seconds int) { t.notify(UITimerTick, map[string]int{"seconds": seconds}) }
func (t *Terminal) TimerHidden()          { t.notify(UITimerHide, nil) }

func (t *Terminal) StateChanged(from, to interview.State) {
	t.notify(UISessionState, map[string]string{"from": from.String(), "to": to.String()})
}

func (t *Terminal) EndConfirmationRequired() { t.notify(UIEndConfirmRequired, nil) }
func (t *Terminal) EndCancelled()            { t.notify(UIEndCancelled, nil) }
func (t *Terminal) ExportReady(entries int)  { t.notify(UIExportReady, map[string]int{"entries": entries}) }
func (t *Terminal) Error(message string)     { t.notify(UIError, map[string]string{"message": message}) }
func (t *Terminal) MuteChanged(micOn bool)   { t.notify(UIMuteState, map[string]bool{"mic_on": micOn}) }
func (t *Terminal) VideoChanged(cameraOn bool) {
	t.notify(UIVideoState, map[string]bool{"camera_on": cameraOn})
}

var (
	_ interview.SpeechEngine = (*Terminal)(nil)
	_ interview.Renderer     = (*Terminal)(nil)
	_ interview.Recognizer   = (*Terminal)(nil)
	_ interview.Media        = (*Terminal)(nil)
	_ interview.Observer     = (*Terminal)(nil)
)
