// Package loop provides the single goroutine on which all session state is
// mutated. Transport readers, timers and UI input hand work to the loop
// instead of touching session state directly.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/omochice/roomtalk/internal/clock"
)

// Loop executes posted tasks one at a time, in the order they were posted.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Loop whose task queue holds up to buffer pending tasks
// before Post starts blocking.
func New(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine. It blocks while the queue is
// full and returns false once the loop has stopped.
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

// Call runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return context.Canceled
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	}
}

// Run executes tasks until ctx is cancelled. Tasks still queued at that
// point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.doneOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Schedule implements clock.Scheduler on wall-clock time. The callback runs
// on the loop goroutine. Schedule and Cancel must themselves be called from
// the loop goroutine.
func (l *Loop) Schedule(d time.Duration, fn func()) clock.Handle {
	h := &timer{}
	h.t = time.AfterFunc(d, func() {
		l.Post(func() {
			// Cancel may have won the race after the wall-clock timer expired
			// but before this task was dequeued.
			if h.finished {
				return
			}
			h.finished = true
			fn()
		})
	})
	return h
}

type timer struct {
	t        *time.Timer
	finished bool
}

func (h *timer) Cancel() bool {
	if h.finished {
		return false
	}
	h.finished = true
	h.t.Stop()
	return true
}

var _ clock.Scheduler = (*Loop)(nil)
