// Package client runs a chat session against a relay server: it owns the
// event loop, keeps a connection alive with exponential backoff and feeds
// inbound frames to the session controller.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/loop"
	"github.com/omochice/roomtalk/internal/session"
	"github.com/omochice/roomtalk/internal/transport"
	"github.com/omochice/roomtalk/pkg/protocol"
	"go.uber.org/zap"
)

// Defaults for the reconnect delays.
const (
	DefaultReconnectMin = 500 * time.Millisecond
	DefaultReconnectMax = 10 * time.Second
)

// Config configures a Client. URL, Identity and Sink are required.
type Config struct {
	URL           string
	Room          string
	Identity      identity.Identity
	Sink          session.Sink
	Notifier      session.Notifier
	TypingTimeout time.Duration
	Milestones    []int
	ReconnectMin  time.Duration
	ReconnectMax  time.Duration
	QueueSize     int
	Dial          Dialer
	Logger        *zap.Logger
}

// Client connects one session to a server. All session mutation happens on
// its event loop; the exported methods are safe for concurrent use.
type Client struct {
	url          string
	dial         Dialer
	queueSize    int
	reconnectMin time.Duration
	reconnectMax time.Duration
	logger       *zap.Logger

	loop       *loop.Loop
	ctrl       *session.Controller
	dispatcher *transport.Dispatcher

	mu    sync.Mutex
	queue *transport.Queue
	state ConnectionState
}

// New creates a Client. Call Run to connect.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("server URL is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("sink is required")
	}
	if cfg.Identity.DisplayName == "" {
		return nil, errors.New("identity is required")
	}

	c := &Client{
		url:          cfg.URL,
		dial:         cfg.Dial,
		queueSize:    cfg.QueueSize,
		reconnectMin: cfg.ReconnectMin,
		reconnectMax: cfg.ReconnectMax,
		logger:       cfg.Logger,
		loop:         loop.New(64),
	}
	if c.dial == nil {
		c.dial = DialURL
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.reconnectMin <= 0 {
		c.reconnectMin = DefaultReconnectMin
	}
	if c.reconnectMax < c.reconnectMin {
		c.reconnectMax = max(DefaultReconnectMax, c.reconnectMin)
	}

	c.ctrl = session.NewController(session.Config{
		Identity:      cfg.Identity,
		Publisher:     transport.NewEmitter(transport.FrameWriterFunc(c.writeFrame)),
		Sink:          cfg.Sink,
		Notifier:      cfg.Notifier,
		Scheduler:     c.loop,
		TypingTimeout: cfg.TypingTimeout,
		Milestones:    cfg.Milestones,
		Logger:        c.logger,
	})
	c.dispatcher = transport.NewDispatcher(c.ctrl, c.logger)
	// the loop is not running yet, so this is the only goroutine touching ctrl
	c.ctrl.JoinRoom(cfg.Room)
	return c, nil
}

// Run starts the event loop and keeps a connection to the server until ctx
// is cancelled.
func (c *Client) Run(ctx context.Context) error {
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = c.loop.Run(ctx)
	}()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.reconnectMin
	b.MaxInterval = c.reconnectMax

	c.setState(StateConnecting)
	for ctx.Err() == nil {
		conn, err := c.dial(ctx, c.url)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			delay := b.NextBackOff()
			if delay < 0 {
				delay = c.reconnectMax
			}
			c.logger.Warn("failed to connect", zap.String("url", c.url), zap.Duration("retry_in", delay), zap.Error(err))
			if !sleep(ctx, delay) {
				break
			}
			continue
		}
		connectedAt := time.Now()
		c.serveConn(ctx, conn)
		if ctx.Err() != nil {
			break
		}
		c.setState(StateReconnecting)

		// only a connection that stayed up earns an immediate redial
		if time.Since(connectedAt) >= c.reconnectMax {
			b.Reset()
			continue
		}
		delay := b.NextBackOff()
		if delay < 0 {
			delay = c.reconnectMax
		}
		c.logger.Warn("connection dropped", zap.String("url", c.url), zap.Duration("retry_in", delay))
		if !sleep(ctx, delay) {
			break
		}
	}

	c.setState(StateClosed)
	<-loopDone
	return nil
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity returns the local identity.
func (c *Client) Identity() identity.Identity {
	return c.ctrl.Identity()
}

// Input reports the current contents of the input field.
func (c *Client) Input(text string) {
	c.loop.Post(func() { c.ctrl.OnInput(text) })
}

// Send submits text as a message. It reports whether a send was attempted;
// blank text is not sent.
func (c *Client) Send(ctx context.Context, text string) (bool, error) {
	var sent bool
	err := c.loop.Call(ctx, func() { sent = c.ctrl.SendMessage(text) })
	return sent, err
}

// JoinRoom switches the session to roomID.
func (c *Client) JoinRoom(ctx context.Context, roomID string) error {
	return c.loop.Call(ctx, func() { c.ctrl.JoinRoom(roomID) })
}

// Snapshot returns a copy of the session state.
func (c *Client) Snapshot(ctx context.Context) (session.Session, error) {
	var s session.Session
	err := c.loop.Call(ctx, func() { s = c.ctrl.Snapshot() })
	return s, err
}

// serveConn pumps frames for one connection and returns when it fails.
func (c *Client) serveConn(ctx context.Context, conn transport.Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := transport.NewQueue(conn, c.queueSize)
	c.mu.Lock()
	c.queue = q
	c.state = StateConnected
	c.mu.Unlock()
	c.logger.Info("connected", zap.String("remote", conn.RemoteAddr()))
	c.loop.Post(c.ctrl.OnConnected)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := q.Run(connCtx); err != nil && connCtx.Err() == nil {
			c.logger.Warn("failed to write frame", zap.Error(err))
			conn.Close()
		}
	}()

	c.readLoop(connCtx, conn)

	c.mu.Lock()
	c.queue = nil
	c.state = StateDisconnected
	c.mu.Unlock()
	q.Close()
	cancel()
	conn.Close()
	<-writerDone
	c.loop.Post(c.ctrl.OnDisconnected)
	c.logger.Info("disconnected", zap.String("remote", conn.RemoteAddr()))
}

func (c *Client) readLoop(ctx context.Context, conn transport.Conn) {
	for {
		data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Debug("read loop exit", zap.Error(err))
			}
			return
		}
		var f protocol.Frame
		if err := f.Decode(data); err != nil {
			c.logger.Warn("failed to decode frame", zap.Error(err))
			continue
		}
		if !c.loop.Post(func() { c.dispatcher.Dispatch(f) }) {
			return
		}
	}
}

// writeFrame is the emitter's sink; it never blocks on the network.
func (c *Client) writeFrame(f protocol.Frame) error {
	c.mu.Lock()
	q := c.queue
	c.mu.Unlock()
	if q == nil {
		return fmt.Errorf("write %s: %w", f.Event, transport.ErrNotConnected)
	}
	return q.WriteFrame(f)
}

func (c *Client) setState(s ConnectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
