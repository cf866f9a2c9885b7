package interview

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
)

func newTestPlayback(stallGrace time.Duration) (*Playback, *fakeEngine, *manualScheduler) {
	sched := newManualScheduler()
	engine := &fakeEngine{}
	p := NewPlayback(engine, sched, PlaybackConfig{
		PerWord:    500 * time.Millisecond,
		FadeLead:   time.Second,
		StallGrace: stallGrace,
		Language:   "en-US",
	}, nil)
	return p, engine, sched
}

type playbackEvents struct {
	order []string
}

func (e *playbackEvents) fade() { e.order = append(e.order, "fade") }
func (e *playbackEvents) done() { e.order = append(e.order, "done") }

func TestPlayback_EstimateDuration(t *testing.T) {
	p, _, _ := newTestPlayback(0)
	assert.Equal(t, 2*time.Second, p.EstimateDuration("one two three four"))

	p.SetSettings(UserSettings{SpeechRate: 2, Volume: 1})
	assert.Equal(t, time.Second, p.EstimateDuration("one two three four"))
}

func TestPlayback_FallbackFiresFade(t *testing.T) {
	p, engine, sched := newTestPlayback(0)
	ev := &playbackEvents{}

	id, err := p.Speak("one two three four", ev.fade, ev.done)
	require.NoError(t, err)
	require.Equal(t, id, engine.last().ID)
	assert.Equal(t, "en-US", engine.last().Lang)

	sched.Advance(999 * time.Millisecond)
	assert.Empty(t, ev.order)

	sched.Advance(time.Millisecond)
	assert.Equal(t, []string{"fade"}, ev.order)

	p.HandleEnd(id)
	assert.Equal(t, []string{"fade", "done"}, ev.order)
	assert.False(t, p.Active())
}

func TestPlayback_BoundaryFiresFadeOnce(t *testing.T) {
	p, _, sched := newTestPlayback(0)
	ev := &playbackEvents{}

	id, err := p.Speak("one two three four", ev.fade, ev.done)
	require.NoError(t, err)

	p.HandleBoundary(id, "sentence")
	p.HandleBoundary(id, BoundaryWord)
	p.HandleBoundary(id, BoundaryWord)
	assert.Empty(t, ev.order)

	p.HandleBoundary(id, BoundaryWord)
	assert.Equal(t, []string{"fade"}, ev.order)

	p.HandleBoundary(id, BoundaryWord)
	sched.Advance(5 * time.Second)
	assert.Equal(t, []string{"fade"}, ev.order)

	p.HandleEnd(id)
	p.HandleEnd(id)
	assert.Equal(t, []string{"fade", "done"}, ev.order)
}

func TestPlayback_EndBeforeFadeFiresFadeFirst(t *testing.T) {
	p, _, sched := newTestPlayback(0)
	ev := &playbackEvents{}

	id, err := p.Speak("a longer sentence with many words in it", ev.fade, ev.done)
	require.NoError(t, err)

	p.HandleEnd(id)
	assert.Equal(t, []string{"fade", "done"}, ev.order)

	sched.Advance(time.Minute)
	assert.Equal(t, []string{"fade", "done"}, ev.order)
}

func TestPlayback_StaleEventsIgnored(t *testing.T) {
	p, engine, _ := newTestPlayback(0)
	first := &playbackEvents{}
	second := &playbackEvents{}

	staleID, err := p.Speak("first utterance", first.fade, first.done)
	require.NoError(t, err)
	id, err := p.Speak("second utterance", second.fade, second.done)
	require.NoError(t, err)
	assert.Equal(t, 2, engine.cancels)

	p.HandleBoundary(staleID, BoundaryWord)
	p.HandleEnd(staleID)
	assert.Empty(t, first.order)
	assert.Empty(t, second.order)

	p.HandleEnd(id)
	assert.Equal(t, []string{"fade", "done"}, second.order)
}

func TestPlayback_ErrorIsSwallowed(t *testing.T) {
	p, _, _ := newTestPlayback(0)
	ev := &playbackEvents{}

	id, err := p.Speak("hello there", ev.fade, ev.done)
	require.NoError(t, err)

	p.HandleError(id, "synthesis-failed")
	assert.Empty(t, ev.order)
	assert.True(t, p.Active())
}

func TestPlayback_EngineRejectionRecoveredByStallGuard(t *testing.T) {
	p, engine, sched := newTestPlayback(10 * time.Second)
	engine.err = errors.New("not allowed")
	ev := &playbackEvents{}

	_, err := p.Speak("one two three four", ev.fade, ev.done)
	require.NoError(t, err)

	sched.Advance(11 * time.Second)
	assert.Equal(t, []string{"fade"}, ev.order)

	sched.Advance(time.Second)
	assert.Equal(t, []string{"fade", "done"}, ev.order)
	assert.False(t, p.Active())
}

func TestPlayback_PauseSuspendsTimers(t *testing.T) {
	p, engine, sched := newTestPlayback(10 * time.Second)
	ev := &playbackEvents{}

	_, err := p.Speak("one two three four", ev.fade, ev.done)
	require.NoError(t, err)

	sched.Advance(500 * time.Millisecond)
	p.Pause()
	assert.Equal(t, 1, engine.pauses)

	sched.Advance(time.Minute)
	assert.Empty(t, ev.order)

	p.Resume()
	assert.Equal(t, 1, engine.resumes)
	sched.Advance(499 * time.Millisecond)
	assert.Empty(t, ev.order)
	sched.Advance(time.Millisecond)
	assert.Equal(t, []string{"fade"}, ev.order)
}

func TestPlayback_SingleWordFadesImmediately(t *testing.T) {
	p, _, sched := newTestPlayback(0)
	ev := &playbackEvents{}

	_, err := p.Speak("Welcome", ev.fade, ev.done)
	require.NoError(t, err)

	sched.Advance(0)
	assert.Equal(t, []string{"fade"}, ev.order)
}

func TestPlayback_SettingsAppliedToUtterance(t *testing.T) {
	p, engine, _ := newTestPlayback(0)
	p.SetSettings(UserSettings{SpeechRate: 1.5, Volume: 0.25})

	_, err := p.Speak("hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.5, engine.last().Rate)
	assert.Equal(t, 0.25, engine.last().Volume)
}

func TestPlayback_EmptyTextRejected(t *testing.T) {
	p, engine, _ := newTestPlayback(0)

	_, err := p.Speak("   ", nil, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrEmptyUtterance)
	assert.Empty(t, engine.spoken)
}

func TestPlayback_StopIsIrreversible(t *testing.T) {
	p, _, sched := newTestPlayback(10 * time.Second)
	ev := &playbackEvents{}

	id, err := p.Speak("one two three four", ev.fade, ev.done)
	require.NoError(t, err)

	p.Stop()
	sched.Advance(time.Minute)
	p.HandleEnd(id)
	assert.Empty(t, ev.order)

	_, err = p.Speak("again", nil, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrSessionClosed)
}
