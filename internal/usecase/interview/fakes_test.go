package interview

import (
	"fmt"
	"time"
)

type manualTimer struct {
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler runs callbacks synchronously inside Advance, ordered by due
// time then creation order.
type manualScheduler struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *manualScheduler) Now() time.Time { return s.now }

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &manualTimer{at: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = target
}

func (s *manualScheduler) nextDue(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range s.timers {
		if t.stopped || t.fired || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeEngine struct {
	spoken  []Utterance
	cancels int
	pauses  int
	resumes int
	err     error
}

func (e *fakeEngine) Speak(u Utterance) error {
	e.spoken = append(e.spoken, u)
	return e.err
}

func (e *fakeEngine) Cancel() { e.cancels++ }
func (e *fakeEngine) Pause()  { e.pauses++ }
func (e *fakeEngine) Resume() { e.resumes++ }

func (e *fakeEngine) last() Utterance {
	if len(e.spoken) == 0 {
		return Utterance{}
	}
	return e.spoken[len(e.spoken)-1]
}

type fakeRenderer struct {
	calls []string
}

func (r *fakeRenderer) ShowSpeaking() { r.calls = append(r.calls, "speaking") }
func (r *fakeRenderer) CrossFade(d time.Duration) {
	r.calls = append(r.calls, fmt.Sprintf("fade:%s", d))
}
func (r *fakeRenderer) ShowIdle() { r.calls = append(r.calls, "idle") }

type fakeRecognizer struct {
	starts int
	stops  int
}

func (r *fakeRecognizer) Start() error {
	r.starts++
	return nil
}

func (r *fakeRecognizer) Stop() error {
	r.stops++
	return nil
}

type fakeMedia struct {
	audio    bool
	video    bool
	released bool
}

func (m *fakeMedia) SetAudioEnabled(v bool) { m.audio = v }
func (m *fakeMedia) SetVideoEnabled(v bool) { m.video = v }
func (m *fakeMedia) Release()               { m.released = true }

type recordingObserver struct {
	shown       []string
	hidden      int
	ticks       []int
	timerHidden int
	transitions []string
	confirmReqs int
	cancelled   int
	exportReady []int
	errors      []string
	mute        []bool
	video       []bool
}

func (o *recordingObserver) QuestionShown(text string) { o.shown = append(o.shown, text) }
func (o *recordingObserver) QuestionHidden()           { o.hidden++ }
func (o *recordingObserver) TimerTick(seconds int)     { o.ticks = append(o.ticks, seconds) }
func (o *recordingObserver) TimerHidden()              { o.timerHidden++ }
func (o *recordingObserver) StateChanged(from, to State) {
	o.transitions = append(o.transitions, from.String()+">"+to.String())
}
func (o *recordingObserver) EndConfirmationRequired() { o.confirmReqs++ }
func (o *recordingObserver) EndCancelled()            { o.cancelled++ }
func (o *recordingObserver) ExportReady(entries int)  { o.exportReady = append(o.exportReady, entries) }
func (o *recordingObserver) Error(message string)     { o.errors = append(o.errors, message) }
func (o *recordingObserver) MuteChanged(micOn bool)   { o.mute = append(o.mute, micOn) }
func (o *recordingObserver) VideoChanged(on bool)     { o.video = append(o.video, on) }

func (o *recordingObserver) lastTick() int {
	if len(o.ticks) == 0 {
		return -1
	}
	return o.ticks[len(o.ticks)-1]
}

type recordingArchiver struct {
	calls [][]TranscriptEntry
}

func (a *recordingArchiver) Archive(entries []TranscriptEntry) {
	a.calls = append(a.calls, entries)
}
