package interview

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
)

// BoundaryWord is the boundary event name counted toward the early fade.
const BoundaryWord = "word"

// PlaybackConfig holds the duration estimate parameters.
type PlaybackConfig struct {
	PerWord    time.Duration
	FadeLead   time.Duration
	StallGrace time.Duration
	Language   string
}

type utterance struct {
	id         string
	words      int
	boundaries int
	faded      bool
	finished   bool
	onFade     func()
	onDone     func()
	fade       *deadline
	stall      *deadline
}

// Playback wraps a SpeechEngine and reconciles its word boundaries, its end
// event and an estimated-duration fallback into one fade and one done per
// utterance.
type Playback struct {
	engine   SpeechEngine
	sched    Scheduler
	cfg      PlaybackConfig
	settings UserSettings
	logger   *zap.Logger

	current *utterance
	stopped bool
}

func NewPlayback(engine SpeechEngine, sched Scheduler, cfg PlaybackConfig, logger *zap.Logger) *Playback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Playback{
		engine:   engine,
		sched:    sched,
		cfg:      cfg,
		settings: DefaultSettings(),
		logger:   logger,
	}
}

// SetSettings applies to the next utterance.
func (p *Playback) SetSettings(s UserSettings) {
	p.settings = s.Normalize()
}

// EstimateDuration returns words x PerWord / rate.
func (p *Playback) EstimateDuration(text string) time.Duration {
	words := len(strings.Fields(text))
	rate := p.settings.Normalize().SpeechRate
	return time.Duration(float64(words) * float64(p.cfg.PerWord) / rate)
}

// Speak cancels any in-flight utterance and starts a new one. onFade fires
// exactly once before onDone.
func (p *Playback) Speak(text string, onFade, onDone func()) (string, error) {
	if p.stopped {
		return "", usecaseErrors.ErrSessionClosed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", usecaseErrors.ErrEmptyUtterance
	}
	p.cancelCurrent()

	estimated := p.EstimateDuration(text)
	fadeAt := estimated - p.cfg.FadeLead
	if fadeAt < 0 {
		fadeAt = 0
	}

	u := &utterance{
		id:     uuid.NewString(),
		words:  len(strings.Fields(text)),
		onFade: onFade,
		onDone: onDone,
	}
	p.current = u
	u.fade = newDeadline(p.sched, fadeAt, func() { p.fireFade(u) })
	if p.cfg.StallGrace > 0 {
		u.stall = newDeadline(p.sched, estimated+p.cfg.StallGrace, func() {
			p.logger.Warn("speech end not reported, forcing completion",
				zap.String("utterance_id", u.id),
				zap.Duration("estimated", estimated))
			p.finish(u)
		})
	}

	err := p.engine.Speak(Utterance{
		ID:     u.id,
		Text:   text,
		Rate:   p.settings.SpeechRate,
		Volume: p.settings.Volume,
		Lang:   p.cfg.Language,
	})
	if err != nil {
		p.logger.Error("speech engine rejected utterance",
			zap.String("utterance_id", u.id),
			zap.Error(err))
	}
	return u.id, nil
}

// HandleStart records that the engine began an utterance.
func (p *Playback) HandleStart(id string) {
	if u := p.lookup(id); u != nil {
		p.logger.Debug("speech started", zap.String("utterance_id", id))
	}
}

func (p *Playback) HandleBoundary(id, name string) {
	u := p.lookup(id)
	if u == nil || name != BoundaryWord {
		return
	}
	u.boundaries++
	if u.boundaries >= u.words-1 {
		p.fireFade(u)
	}
}

func (p *Playback) HandleEnd(id string) {
	if u := p.lookup(id); u != nil {
		p.finish(u)
	}
}

// HandleError logs engine errors. The utterance stays pending; the stall guard
// completes it if the engine never reports an end.
func (p *Playback) HandleError(id, message string) {
	p.logger.Warn("speech synthesis error",
		zap.String("utterance_id", id),
		zap.String("error", message))
}

func (p *Playback) Pause() {
	u := p.current
	if u == nil {
		return
	}
	p.engine.Pause()
	u.fade.pause()
	u.stall.pause()
}

func (p *Playback) Resume() {
	u := p.current
	if u == nil {
		return
	}
	p.engine.Resume()
	u.fade.resume()
	u.stall.resume()
}

// Stop cancels the engine and all timers. Later Speak calls fail.
func (p *Playback) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	p.cancelCurrent()
}

// Active reports whether an utterance is in flight.
func (p *Playback) Active() bool { return p.current != nil }

func (p *Playback) lookup(id string) *utterance {
	u := p.current
	if u == nil || u.id != id || u.finished {
		return nil
	}
	return u
}

func (p *Playback) cancelCurrent() {
	if u := p.current; u != nil {
		u.finished = true
		u.fade.cancel()
		u.stall.cancel()
		p.current = nil
	}
	p.engine.Cancel()
}

func (p *Playback) fireFade(u *utterance) {
	if u.faded {
		return
	}
	u.faded = true
	u.fade.cancel()
	if u.onFade != nil {
		u.onFade()
	}
}

func (p *Playback) finish(u *utterance) {
	if u.finished {
		return
	}
	u.finished = true
	u.fade.cancel()
	u.stall.cancel()
	if p.current == u {
		p.current = nil
	}
	p.fireFade(u)
	if u.onDone != nil {
		u.onDone()
	}
}
