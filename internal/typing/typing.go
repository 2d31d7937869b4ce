// Package typing implements the local typing-indicator debounce.
package typing

import (
	"strings"
	"time"

	"github.com/omochice/roomtalk/internal/clock"
)

// DefaultTimeout is how long after the last keystroke the user stops typing.
const DefaultTimeout = 2000 * time.Millisecond

// State is the debounce state.
type State int

const (
	Idle State = iota
	Typing
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	default:
		return "unknown"
	}
}

// Signaler receives the start/stop edges.
type Signaler interface {
	TypingStarted()
	TypingStopped()
}

// Machine turns a stream of input events into exactly one start signal per
// burst and exactly one stop signal when the burst ends.
//
// Machine is not safe for concurrent use; all calls, including timer
// callbacks delivered by the Scheduler, must happen on one goroutine.
type Machine struct {
	sched   clock.Scheduler
	sig     Signaler
	timeout time.Duration

	state   State
	pending clock.Handle
	gen     uint64
}

// New creates an idle Machine. A non-positive timeout selects DefaultTimeout.
func New(sched clock.Scheduler, sig Signaler, timeout time.Duration) *Machine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Machine{sched: sched, sig: sig, timeout: timeout}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Input handles a local input event; text is the full input contents after
// the edit. Blank contents end the burst immediately.
func (m *Machine) Input(text string) {
	if strings.TrimSpace(text) == "" {
		m.Stop()
		return
	}
	if m.state == Idle {
		m.state = Typing
		m.sig.TypingStarted()
	}
	m.arm()
}

// Stop ends the burst now, e.g. because the message was submitted.
func (m *Machine) Stop() {
	m.disarm()
	if m.state == Typing {
		m.state = Idle
		m.sig.TypingStopped()
	}
}

// arm replaces the outstanding timeout, keeping at most one alive.
func (m *Machine) arm() {
	m.disarm()
	m.gen++
	gen := m.gen
	m.pending = m.sched.Schedule(m.timeout, func() { m.expire(gen) })
}

func (m *Machine) disarm() {
	if m.pending != nil {
		m.pending.Cancel()
		m.pending = nil
	}
}

func (m *Machine) expire(gen uint64) {
	if gen != m.gen {
		// superseded by a later arm
		return
	}
	m.pending = nil
	if m.state == Typing {
		m.state = Idle
		m.sig.TypingStopped()
	}
}
