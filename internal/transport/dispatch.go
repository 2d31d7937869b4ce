package transport

import (
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/session"
	"github.com/omochice/roomtalk/pkg/protocol"
	"go.uber.org/zap"
)

// AnonymousName replaces a missing display name in inbound payloads.
const AnonymousName = "Anonymous"

// Handler receives server -> client events. session.Controller implements it.
type Handler interface {
	OnHistoryReceived(msgs []session.Message)
	OnMessageReceived(msg session.Message)
	OnPresenceUpdate(count int)
	OnRemoteTypingStart(displayName string)
	OnRemoteTypingStop(displayName string)
}

// Dispatcher routes decoded frames to a Handler.
type Dispatcher struct {
	handler Handler
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher. A nil logger discards logs.
func NewDispatcher(h Handler, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{handler: h, logger: logger}
}

// Dispatch delivers f to the handler, filling in defaults for missing
// fields. Frames that are not server -> client events are logged and dropped.
func (d *Dispatcher) Dispatch(f protocol.Frame) {
	switch f.Event {
	case protocol.EventChatHistory:
		msgs := make([]session.Message, 0, len(f.History))
		for _, e := range f.History {
			msgs = append(msgs, MessageFromEntry(e))
		}
		d.handler.OnHistoryReceived(msgs)
	case protocol.EventMessage:
		d.handler.OnMessageReceived(MessageFromEntry(f.Entry()))
	case protocol.EventUserCount:
		d.handler.OnPresenceUpdate(f.Count)
	case protocol.EventUserTyping:
		d.handler.OnRemoteTypingStart(displayNameOrAnonymous(f.DisplayName))
	case protocol.EventUserStopTyping:
		d.handler.OnRemoteTypingStop(displayNameOrAnonymous(f.DisplayName))
	default:
		d.logger.Debug("ignoring inbound frame", zap.Stringer("event", f.Event))
	}
}

// MessageFromEntry converts a wire entry to a message. Empty text is kept.
func MessageFromEntry(e protocol.Entry) session.Message {
	color := e.ColorToken
	if color == "" {
		color = identity.DefaultColorToken
	}
	return session.Message{
		Author: identity.Identity{
			DisplayName: displayNameOrAnonymous(e.DisplayName),
			ColorToken:  color,
		},
		Text:        e.Text,
		SentAtLabel: e.SentAtLabel,
	}
}

func displayNameOrAnonymous(name string) string {
	if name == "" {
		return AnonymousName
	}
	return name
}
