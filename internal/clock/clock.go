// Package clock abstracts delayed callbacks so that timing-dependent state
// machines can run against wall-clock timers in production and a manually
// advanced clock in tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Handle is a scheduled callback that has not necessarily fired yet.
type Handle interface {
	// Cancel prevents the callback from running. It reports whether the
	// callback was still pending.
	Cancel() bool
}

// Scheduler runs fn once after delay d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

// Manual is a Scheduler whose time only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m        *Manual
	deadline time.Duration
	seq      int
	fn       func()
	done     bool
}

// NewManual returns a manual clock positioned at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{m: m, deadline: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of callbacks that are scheduled and not cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves time forward by d, running due callbacks in deadline order.
// Callbacks scheduled by a callback run too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.popDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.deadline
		m.mu.Unlock()

		next.fn()
	}
}

// popDue removes and returns the earliest timer due at or before target.
// Caller must hold m.mu.
func (m *Manual) popDue(target time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].deadline == m.timers[j].deadline {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].deadline < m.timers[j].deadline
	})
	first := m.timers[0]
	if first.deadline > target {
		return nil
	}
	m.timers = m.timers[1:]
	first.done = true
	return first
}

// Cancel implements Handle.
func (t *manualTimer) Cancel() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			break
		}
	}
	return true
}
