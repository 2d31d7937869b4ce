package ws

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/omochice/roomtalk/internal/transport"
)

// Path is the endpoint clients upgrade on.
const Path = "/ws"

var errFrameTooLarge = fmt.Errorf("websocket frame exceeds %d bytes", transport.MaxFrameSize)

// ServerConn is the server side of an upgraded connection, framed with gobwas/ws.
type ServerConn struct {
	conn   net.Conn
	reader io.Reader

	mu        sync.Mutex // serializes whole frames on conn
	closeOnce sync.Once
}

// Upgrade performs the HTTP upgrade handshake on conn. reader must be the
// reader the request is read from, typically a bufio.Reader that already
// peeked at the request line. Requests for any path other than Path are
// rejected with 404.
func Upgrade(conn net.Conn, reader *bufio.Reader) (*ServerConn, error) {
	u := ws.Upgrader{
		OnRequest: func(uri []byte) error {
			path, _, _ := strings.Cut(string(uri), "?")
			if path != Path {
				return ws.RejectConnectionError(ws.RejectionStatus(http.StatusNotFound))
			}
			return nil
		},
	}
	rw := struct {
		io.Reader
		io.Writer
	}{reader, conn}
	if _, err := u.Upgrade(rw); err != nil {
		return nil, err
	}
	return &ServerConn{conn: conn, reader: reader}, nil
}

// Read implements transport.Conn. It answers control frames and skips text
// messages.
func (c *ServerConn) Read(ctx context.Context) ([]byte, error) {
	stop := c.watchRead(ctx)
	defer stop()

	rd := wsutil.Reader{
		Source:         c.reader,
		State:          ws.StateServerSide,
		CheckUTF8:      true,
		OnIntermediate: c.handleControl,
	}
	for {
		hdr, err := rd.NextFrame()
		if err != nil {
			return nil, err
		}
		if hdr.OpCode.IsControl() {
			if err := c.handleControl(hdr, &rd); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.OpCode != ws.OpBinary {
			if err := rd.Discard(); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.Length > transport.MaxFrameSize {
			return nil, errFrameTooLarge
		}
		return io.ReadAll(&rd)
	}
}

// Write implements transport.Conn.
func (c *ServerConn) Write(ctx context.Context, data []byte) error {
	var buf bytes.Buffer
	if err := wsutil.WriteServerBinary(&buf, data); err != nil {
		return err
	}
	return c.writeRaw(ctx, buf.Bytes())
}

// Close sends a normal closure frame and closes the connection.
func (c *ServerConn) Close() error {
	err := net.ErrClosed
	c.closeOnce.Do(func() {
		var buf bytes.Buffer
		body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
		if werr := ws.WriteFrame(&buf, ws.NewCloseFrame(body)); werr == nil {
			_ = c.writeRaw(context.Background(), buf.Bytes())
		}
		err = c.conn.Close()
	})
	return err
}

// RemoteAddr implements transport.Conn.
func (c *ServerConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// handleControl answers ping and close frames. The reply is buffered first so
// it goes out as one write under the frame lock.
func (c *ServerConn) handleControl(hdr ws.Header, r io.Reader) error {
	var buf bytes.Buffer
	handlerErr := wsutil.ControlFrameHandler(&buf, ws.StateServerSide)(hdr, r)
	if buf.Len() > 0 {
		if err := c.writeRaw(context.Background(), buf.Bytes()); err != nil && handlerErr == nil {
			return err
		}
	}
	return handlerErr
}

func (c *ServerConn) writeRaw(ctx context.Context, p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := c.conn.Write(p)
	return err
}

// watchRead applies ctx's deadline and cancellation to the blocking read.
func (c *ServerConn) watchRead(ctx context.Context) func() bool {
	deadline, _ := ctx.Deadline()
	_ = c.conn.SetReadDeadline(deadline)
	return context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
}

var _ transport.Conn = (*ServerConn)(nil)
