// Package server runs the room relay on a single port, accepting raw TCP and
// WebSocket clients side by side.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/omochice/roomtalk/internal/room"
	"github.com/omochice/roomtalk/internal/transport"
	"github.com/omochice/roomtalk/internal/transport/tcp"
	"github.com/omochice/roomtalk/internal/transport/ws"
	"go.uber.org/zap"
)

// HandshakeTimeout bounds protocol detection and the WebSocket upgrade.
const HandshakeTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	Address   string
	QueueSize int
	Logger    *zap.Logger
}

// Server accepts TCP and WebSocket connections on one port and hands them to a Hub.
type Server struct {
	address   string
	queueSize int
	logger    *zap.Logger
	hub       *room.Hub

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// New creates a Server that uses the provided Hub.
func New(cfg Config, hub *room.Hub) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		address:   cfg.Address,
		queueSize: cfg.QueueSize,
		logger:    logger,
		hub:       hub,
		ctx:       ctx,
		cancel:    cancel,
		conns:     make(map[net.Conn]struct{}),
	}
}

// Listen binds the listening socket.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener
	s.logger.Info("server started", zap.String("addr", listener.Addr().String()))
	return nil
}

// Serve accepts connections until Stop is called. Listen must have succeeded.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Warn("failed to accept connection", zap.Error(err))
			continue
		}

		if !s.track(conn) {
			conn.Close()
			continue
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// Start listens and serves; it returns when the server is stopped.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop closes the listener and every accepted connection, including those
// still in protocol detection, then waits for the connection goroutines to
// finish.
func (s *Server) Stop() {
	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// handleConnection determines whether the connection is HTTP (WebSocket) or TCP.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)

	_ = conn.SetDeadline(time.Now().Add(HandshakeTimeout))
	proto, reader, err := detectProtocol(conn)
	if err != nil {
		s.logger.Debug("failed to peek connection", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
		conn.Close()
		return
	}

	var c transport.Conn
	switch proto {
	case protocolHTTP:
		wsConn, err := ws.Upgrade(conn, reader)
		if err != nil {
			s.logger.Warn("failed to upgrade connection", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
			conn.Close()
			return
		}
		c = wsConn
	default:
		c = tcp.NewConnWithReader(conn, reader)
	}
	_ = conn.SetDeadline(time.Time{})

	s.serveConn(c, proto)
}

func (s *Server) serveConn(c transport.Conn, proto protocolType) {
	m := room.NewMember(c, s.queueSize)
	logger := s.logger.With(zap.Stringer("member", m.ID), zap.String("remote", c.RemoteAddr()))
	if proto == protocolHTTP {
		logger.Info("websocket client connected")
	} else {
		logger.Info("tcp client connected")
	}
	s.hub.Register(m)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := m.Outgoing.Run(s.ctx); err != nil && s.ctx.Err() == nil {
			logger.Warn("failed to send to client", zap.Error(err))
			c.Close()
		}
	}()

	if err := s.hub.Serve(s.ctx, m); err != nil {
		logger.Debug("read loop ended", zap.Error(err))
	}
	<-writerDone
	c.Close()
	logger.Info("client disconnected")
}

// track registers c for shutdown; it reports false once Stop has begun.
func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}
