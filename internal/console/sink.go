package console

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/omochice/roomtalk/internal/session"
)

// Sink is the session.Sink and session.Notifier of a Model. Calls are queued
// for the model's event loop and never block the caller, so the session
// loop cannot stall behind the screen.
type Sink struct {
	mu        sync.Mutex
	pending   []tea.Msg
	ready     chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{
		ready:  make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Close stops delivery to the model. Later calls are discarded.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

type (
	historyMsg      []session.Message
	appendMsg       session.Message
	messageCountMsg int
	onlineCountMsg  int
	connectedMsg    bool
	milestoneMsg    int
	bellMsg         struct{}
	typingMsg       struct {
		name   string
		typing bool
	}
	// sinkBatchMsg carries every call queued since the previous batch, in order.
	sinkBatchMsg []tea.Msg
)

func (s *Sink) push(msg tea.Msg) {
	select {
	case <-s.closed:
		return
	default:
	}
	s.mu.Lock()
	s.pending = append(s.pending, msg)
	s.mu.Unlock()
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// wait returns a command that delivers the next batch, or nil once closed.
func (s *Sink) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.ready:
		case <-s.closed:
			return nil
		}
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()
		return sinkBatchMsg(batch)
	}
}

// ReplaceHistory implements session.Sink.
func (s *Sink) ReplaceHistory(msgs []session.Message) {
	s.push(historyMsg(append([]session.Message(nil), msgs...)))
}

// AppendMessage implements session.Sink.
func (s *Sink) AppendMessage(msg session.Message) { s.push(appendMsg(msg)) }

// SetMessageCount implements session.Sink.
func (s *Sink) SetMessageCount(n int) { s.push(messageCountMsg(n)) }

// SetOnlineCount implements session.Sink.
func (s *Sink) SetOnlineCount(n int) { s.push(onlineCountMsg(n)) }

// ShowTyping implements session.Sink.
func (s *Sink) ShowTyping(name string) { s.push(typingMsg{name: name, typing: true}) }

// HideTyping implements session.Sink.
func (s *Sink) HideTyping(name string) { s.push(typingMsg{name: name}) }

// SetConnected implements session.Sink.
func (s *Sink) SetConnected(connected bool) { s.push(connectedMsg(connected)) }

// Milestone implements session.Sink.
func (s *Sink) Milestone(count int) { s.push(milestoneMsg(count)) }

// MessageReceived implements session.Notifier.
func (s *Sink) MessageReceived(session.Message) { s.push(bellMsg{}) }

// MessageSent implements session.Notifier.
func (s *Sink) MessageSent() { s.push(bellMsg{}) }

// MilestoneReached implements session.Notifier.
func (s *Sink) MilestoneReached(int) { s.push(bellMsg{}) }

var (
	_ session.Sink     = (*Sink)(nil)
	_ session.Notifier = (*Sink)(nil)
)
