package interview

import "time"

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Scheduler runs callbacks after a delay on the session's loop. Implementations
// must never run a callback after Stop returned, and must run callbacks on the
// same goroutine that drives the Sequencer.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// deadline is a pausable one-shot timer built on a Scheduler.
type deadline struct {
	sched     Scheduler
	fn        func()
	remaining time.Duration
	startedAt time.Time
	timer     Timer
	paused    bool
	done      bool
}

func newDeadline(sched Scheduler, d time.Duration, fn func()) *deadline {
	if d < 0 {
		d = 0
	}
	dl := &deadline{sched: sched, fn: fn, remaining: d}
	dl.arm()
	return dl
}

func (d *deadline) arm() {
	d.startedAt = d.sched.Now()
	d.timer = d.sched.AfterFunc(d.remaining, func() {
		if d.done || d.paused {
			return
		}
		d.done = true
		d.timer = nil
		d.fn()
	})
}

func (d *deadline) pause() {
	if d == nil || d.done || d.paused {
		return
	}
	d.paused = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	elapsed := d.sched.Now().Sub(d.startedAt)
	d.remaining -= elapsed
	if d.remaining < 0 {
		d.remaining = 0
	}
}

func (d *deadline) resume() {
	if d == nil || d.done || !d.paused {
		return
	}
	d.paused = false
	d.arm()
}

func (d *deadline) cancel() {
	if d == nil || d.done {
		return
	}
	d.done = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
