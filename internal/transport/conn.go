// Package transport adapts the room event contract to connections: it
// abstracts the byte transport, decodes inbound frames onto a Handler and
// turns outbound session actions into frames.
package transport

import "context"

// MaxFrameSize bounds a single encoded frame on every transport.
const MaxFrameSize = 1 << 20

// Conn abstracts a bidirectional frame connection for both TCP and WebSocket.
type Conn interface {
	// Read reads a single frame. Returns io.EOF when the connection is closed.
	Read(ctx context.Context) ([]byte, error)

	// Write sends a single frame.
	Write(ctx context.Context, data []byte) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}
