// Package tcp provides the raw TCP transport: frames prefixed with their
// length as a protobuf varint.
package tcp

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/omochice/roomtalk/internal/transport"
	"google.golang.org/protobuf/encoding/protowire"
)

// Conn adapts net.Conn to transport.Conn.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewConn wraps a net.Conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn, reader: bufio.NewReader(conn)}
}

// NewConnWithReader wraps a net.Conn whose first bytes were already buffered
// by reader, e.g. during protocol detection.
func NewConnWithReader(conn net.Conn, reader *bufio.Reader) *Conn {
	return &Conn{conn: conn, reader: reader}
}

// Dial connects to a TCP frame server at addr.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewConn(conn), nil
}

// Read implements transport.Conn.
// Reads one length-prefixed frame from the TCP connection.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	size, err := binary.ReadUvarint(c.reader)
	if err != nil {
		return nil, err
	}
	if size > transport.MaxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit of %d", size, transport.MaxFrameSize)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(c.reader, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return data, nil
}

// Write implements transport.Conn.
func (c *Conn) Write(ctx context.Context, data []byte) error {
	if len(data) > transport.MaxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds limit of %d", len(data), transport.MaxFrameSize)
	}
	buf := protowire.AppendVarint(make([]byte, 0, len(data)+binary.MaxVarintLen64), uint64(len(data)))
	buf = append(buf, data...)

	c.mu.Lock()
	defer c.mu.Unlock()
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := c.conn.Write(buf)
	return err
}

// Close implements transport.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

var _ transport.Conn = (*Conn)(nil)
