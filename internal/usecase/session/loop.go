package session

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

const loopBuffer = 128

// Loop runs posted functions one at a time on a single goroutine
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewLoop starts a loop
func NewLoop() *Loop {
	l := &Loop{
		tasks: make(chan func(), loopBuffer),
		done:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case fn := <-l.tasks:
			select {
			case <-l.done:
				return
			default:
			}
			fn()
		}
	}
}

// Post queues fn. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it. It must not be called from the loop.
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return usecaseErrors.ErrSessionClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return usecaseErrors.ErrSessionClosed
	}
}

// Close stops the loop after the running function returns. Queued functions
// are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
	l.wg.Wait()
}

// Closed reports whether Close was called
func (l *Loop) Closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// loopScheduler fires timer callbacks on a Loop
type loopScheduler struct {
	loop  *Loop
	clock clock.Clock
}

var _ interview.Scheduler = loopScheduler{}

func (s loopScheduler) Now() time.Time { return s.clock.Now() }

func (s loopScheduler) AfterFunc(d time.Duration, fn func()) interview.Timer {
	t := &loopTimer{}
	t.timer = s.clock.AfterFunc(d, func() {
		s.loop.Post(func() {
			if t.stopped || t.fired {
				return
			}
			t.fired = true
			fn()
		})
	})
	return t
}

// loopTimer state is only touched on the loop
type loopTimer struct {
	timer   *clock.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
