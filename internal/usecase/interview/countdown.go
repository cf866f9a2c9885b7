package interview

import "time"

// Countdown is a pausable one-second-step timer with a single completion callback.
// Only one countdown is active at a time; Start replaces the previous one.
type Countdown struct {
	sched      Scheduler
	onTick     func(seconds int)
	remaining  int
	onComplete func()
	timer      Timer
	running    bool
	gen        uint64
}

// NewCountdown creates an idle countdown. onTick receives every displayed value.
func NewCountdown(sched Scheduler, onTick func(seconds int)) *Countdown {
	if onTick == nil {
		onTick = func(int) {}
	}
	return &Countdown{sched: sched, onTick: onTick}
}

// Start begins counting down from seconds. The previous countdown, running or
// paused, is abandoned and its callback is never invoked.
func (c *Countdown) Start(seconds int, onComplete func()) {
	c.halt()
	c.onComplete = nil
	if seconds <= 0 {
		c.remaining = 0
		if onComplete != nil {
			onComplete()
		}
		return
	}
	c.remaining = seconds
	c.onComplete = onComplete
	c.running = true
	c.onTick(c.remaining)
	c.schedule()
}

// Pause stops ticking and keeps the remaining time and callback.
func (c *Countdown) Pause() {
	if !c.running {
		return
	}
	c.halt()
}

// Resume continues from the preserved remaining time.
func (c *Countdown) Resume() {
	if c.running || c.remaining <= 0 || c.onComplete == nil {
		return
	}
	c.running = true
	c.onTick(c.remaining)
	c.schedule()
}

// Stop destroys the countdown without invoking the callback.
func (c *Countdown) Stop() {
	c.halt()
	c.remaining = 0
	c.onComplete = nil
}

func (c *Countdown) Remaining() int { return c.remaining }

func (c *Countdown) isRunning() bool { return c.running }

// resumable reports whether a paused countdown can be resumed.
func (c *Countdown) resumable() bool {
	return !c.running && c.remaining > 0 && c.onComplete != nil
}

func (c *Countdown) halt() {
	c.gen++
	c.running = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Countdown) schedule() {
	gen := c.gen
	c.timer = c.sched.AfterFunc(time.Second, func() {
		if gen != c.gen || !c.running {
			return
		}
		c.step()
	})
}

func (c *Countdown) step() {
	c.timer = nil
	c.remaining--
	c.onTick(c.remaining)
	if c.remaining > 0 {
		c.schedule()
		return
	}
	c.running = false
	cb := c.onComplete
	c.onComplete = nil
	if cb != nil {
		cb()
	}
}
