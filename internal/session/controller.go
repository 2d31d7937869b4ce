package session

import (
	"strings"
	"time"

	"github.com/omochice/roomtalk/internal/clock"
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/milestone"
	"github.com/omochice/roomtalk/internal/typing"
	"go.uber.org/zap"
)

// TimeLabelLayout formats the sent-at label, e.g. "03:04 PM".
const TimeLabelLayout = "03:04 PM"

// Config wires a Controller to its collaborators. Identity, Publisher, Sink
// and Scheduler are required.
type Config struct {
	Identity      identity.Identity
	Publisher     Publisher
	Sink          Sink
	Notifier      Notifier
	Scheduler     clock.Scheduler
	TypingTimeout time.Duration
	Milestones    []int
	Now           func() time.Time
	Logger        *zap.Logger
}

// Controller owns a Session and is the only thing that mutates it.
//
// Controller is not safe for concurrent use. Every method, and every
// callback the Scheduler delivers, must run on the same goroutine.
type Controller struct {
	id         identity.Identity
	pub        Publisher
	sink       Sink
	notifier   Notifier
	milestones []int
	now        func() time.Time
	logger     *zap.Logger

	state  Session
	typing *typing.Machine
}

// NewController creates a disconnected controller with no room.
func NewController(cfg Config) *Controller {
	c := &Controller{
		id:         cfg.Identity,
		pub:        cfg.Publisher,
		sink:       cfg.Sink,
		notifier:   cfg.Notifier,
		milestones: cfg.Milestones,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.typing = typing.New(cfg.Scheduler, typingSignals{c}, cfg.TypingTimeout)
	return c
}

// Identity returns the local identity.
func (c *Controller) Identity() identity.Identity {
	return c.id
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Session {
	s := c.state
	s.Typing = c.typing.State()
	return s
}

// JoinRoom makes roomID the session's room and requests membership. While
// disconnected the request is deferred to OnConnected. Counters are left
// alone until the room's history arrives.
func (c *Controller) JoinRoom(roomID string) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		roomID = DefaultRoom
	}
	if c.state.RoomID != roomID {
		// typing presence belongs to the room being left
		c.typing.Stop()
	}
	c.state.RoomID = roomID
	if c.state.Connected {
		c.publishJoin()
	}
}

// OnConnected marks the transport as up and re-requests membership, so the
// history that follows replaces whatever was shown before the disconnect.
func (c *Controller) OnConnected() {
	c.state.Connected = true
	c.sink.SetConnected(true)
	if c.state.RoomID != "" {
		c.publishJoin()
	}
}

// OnDisconnected marks the transport as down. Anything sent meanwhile is lost.
func (c *Controller) OnDisconnected() {
	c.typing.Stop()
	c.state.Connected = false
	c.sink.SetConnected(false)
}

// OnHistoryReceived replaces the rendered messages and the message count
// with msgs. Repeated deliveries, with or without a reconnect in between,
// always replace.
func (c *Controller) OnHistoryReceived(msgs []Message) {
	history := make([]Message, len(msgs))
	for i, m := range msgs {
		history[i] = c.stamp(m)
	}
	c.state.MessageCount = len(history)
	c.sink.ReplaceHistory(history)
	c.sink.SetMessageCount(c.state.MessageCount)
}

// OnMessageReceived counts and renders one delivered message, including the
// echo of the user's own sends.
func (c *Controller) OnMessageReceived(msg Message) {
	msg = c.stamp(msg)
	c.state.MessageCount++
	c.sink.AppendMessage(msg)
	c.sink.SetMessageCount(c.state.MessageCount)

	if !msg.Origin {
		c.notifier.MessageReceived(msg)
	}
	if milestone.Detect(c.state.MessageCount, c.milestones...) {
		c.sink.Milestone(c.state.MessageCount)
		c.notifier.MilestoneReached(c.state.MessageCount)
	}
}

// OnPresenceUpdate replaces the online count; last write wins.
func (c *Controller) OnPresenceUpdate(count int) {
	if count < 0 {
		count = 0
	}
	c.state.OnlineCount = count
	c.sink.SetOnlineCount(count)
}

// SendMessage publishes text unless it is blank. It reports whether a send
// was attempted. The message count is untouched: the message is counted when
// the server echoes it back.
func (c *Controller) SendMessage(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	label := c.now().Format(TimeLabelLayout)
	if err := c.pub.SendMessage(c.state.RoomID, c.id, text, label); err != nil {
		c.logger.Warn("send-message dropped", zap.String("room", c.state.RoomID), zap.Error(err))
	}
	c.typing.Stop()
	c.notifier.MessageSent()
	return true
}

// OnInput feeds a local input event, text being the full input contents.
func (c *Controller) OnInput(text string) {
	c.typing.Input(text)
}

// OnRemoteTypingStart shows another participant's typing indicator.
func (c *Controller) OnRemoteTypingStart(author string) {
	if author == c.id.DisplayName {
		return
	}
	c.sink.ShowTyping(author)
}

// OnRemoteTypingStop hides another participant's typing indicator.
func (c *Controller) OnRemoteTypingStop(author string) {
	if author == c.id.DisplayName {
		return
	}
	c.sink.HideTyping(author)
}

func (c *Controller) stamp(m Message) Message {
	m.Origin = m.Author.DisplayName == c.id.DisplayName
	return m
}

func (c *Controller) publishJoin() {
	if err := c.pub.JoinRoom(c.state.RoomID); err != nil {
		c.logger.Warn("join-room dropped", zap.String("room", c.state.RoomID), zap.Error(err))
	}
}

// typingSignals publishes the typing machine's edges for the current room.
type typingSignals struct{ c *Controller }

func (s typingSignals) TypingStarted() {
	c := s.c
	if err := c.pub.Typing(c.state.RoomID, c.id.DisplayName); err != nil {
		c.logger.Debug("typing dropped", zap.Error(err))
	}
}

func (s typingSignals) TypingStopped() {
	c := s.c
	if err := c.pub.StopTyping(c.state.RoomID, c.id.DisplayName); err != nil {
		c.logger.Debug("stop-typing dropped", zap.Error(err))
	}
}
