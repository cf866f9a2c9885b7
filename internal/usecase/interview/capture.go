package interview

import (
	"strings"

	"go.uber.org/zap"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
)

// AnswerBuffer receives finalized answer segments for the active question.
type AnswerBuffer interface {
	QuestionActive() bool
	AppendAnswer(segment string)
	ClearAnswer()
}

// Capture gates speech-to-text results by the microphone state.
type Capture struct {
	recognizer Recognizer
	media      Media
	buffer     AnswerBuffer
	observer   Observer
	logger     *zap.Logger

	mediaReady bool
	micOn      bool
	cameraOn   bool
	stopped    bool
	overall    []string
}

func NewCapture(recognizer Recognizer, media Media, buffer AnswerBuffer, observer Observer, logger *zap.Logger) *Capture {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Capture{
		recognizer: recognizer,
		media:      media,
		buffer:     buffer,
		observer:   observer,
		logger:     logger,
	}
}

// MediaReady marks the local stream acquired. Both tracks start disabled.
func (c *Capture) MediaReady() {
	if c.stopped {
		return
	}
	c.mediaReady = true
	c.micOn = false
	c.cameraOn = false
	c.observer.MuteChanged(false)
	c.observer.VideoChanged(false)
}

func (c *Capture) MediaFailed(message string) {
	c.mediaReady = false
	c.logger.Warn("media access failed", zap.String("error", message))
	c.observer.Error("Could not access camera or microphone: " + message)
}

// ToggleMute flips the microphone. Turning it on clears the current answer
// and starts recognition; turning it off stops recognition.
func (c *Capture) ToggleMute() error {
	if err := c.usable(); err != nil {
		return err
	}
	c.micOn = !c.micOn
	c.media.SetAudioEnabled(c.micOn)
	if c.micOn {
		c.buffer.ClearAnswer()
		if err := c.recognizer.Start(); err != nil {
			c.logger.Warn("failed to start recognition", zap.Error(err))
		}
	} else {
		if err := c.recognizer.Stop(); err != nil {
			c.logger.Warn("failed to stop recognition", zap.Error(err))
		}
	}
	c.observer.MuteChanged(c.micOn)
	return nil
}

func (c *Capture) ToggleVideo() error {
	if err := c.usable(); err != nil {
		return err
	}
	c.cameraOn = !c.cameraOn
	c.media.SetVideoEnabled(c.cameraOn)
	c.observer.VideoChanged(c.cameraOn)
	return nil
}

// HandleResult appends a finalized segment to the active answer, or to the
// overall buffer when no question is active.
func (c *Capture) HandleResult(text string, final bool) {
	if c.stopped || !c.micOn || !final {
		return
	}
	segment := strings.TrimSpace(text)
	if segment == "" {
		return
	}
	if c.buffer.QuestionActive() {
		c.buffer.AppendAnswer(segment)
		return
	}
	c.overall = append(c.overall, segment)
}

// HandleError logs a recognition error. Recognition is not restarted.
func (c *Capture) HandleError(message string) {
	c.logger.Warn("speech recognition error", zap.String("error", message))
}

// Stop ends recognition and releases media. Toggles are inert afterwards.
func (c *Capture) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	if c.micOn {
		if err := c.recognizer.Stop(); err != nil {
			c.logger.Warn("failed to stop recognition", zap.Error(err))
		}
	}
	c.micOn = false
	c.cameraOn = false
	if c.mediaReady {
		c.media.Release()
	}
	c.mediaReady = false
}

func (c *Capture) MicOn() bool    { return c.micOn }
func (c *Capture) CameraOn() bool { return c.cameraOn }

// overallText returns segments captured while no question was active.
func (c *Capture) overallText() string {
	return strings.Join(c.overall, " ")
}

func (c *Capture) usable() error {
	if c.stopped {
		return usecaseErrors.ErrCaptureStopped
	}
	if !c.mediaReady {
		return usecaseErrors.ErrMediaUnavailable
	}
	return nil
}
