package ws_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/omochice/roomtalk/internal/transport/ws"
)

// serveOne accepts one connection on a loopback listener, upgrades it and
// hands the result to fn.
func serveOne(t *testing.T, fn func(*ws.ServerConn, error)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		sc, err := ws.Upgrade(conn, bufio.NewReader(conn))
		if err != nil {
			conn.Close()
		}
		fn(sc, err)
	}()
	return ln.Addr().String()
}

func TestServerConn_Echo(t *testing.T) {
	addr := serveOne(t, func(sc *ws.ServerConn, err error) {
		if err != nil {
			return
		}
		defer sc.Close()
		data, err := sc.Read(context.Background())
		if err != nil {
			return
		}
		_ = sc.Write(context.Background(), append([]byte("echo:"), data...))
	})

	conn, err := ws.Dial(context.Background(), "ws://"+addr+ws.Path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.Write(context.Background(), []byte("ping")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "echo:ping" {
		t.Errorf("Read() = %q, want %q", data, "echo:ping")
	}
}

func TestServerConn_RejectsOtherPaths(t *testing.T) {
	upgraded := make(chan error, 1)
	addr := serveOne(t, func(_ *ws.ServerConn, err error) { upgraded <- err })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ws.Dial(ctx, "ws://"+addr+"/other"); err == nil {
		t.Fatal("expected dial to /other to fail")
	}
	if err := <-upgraded; err == nil {
		t.Error("Upgrade() accepted a request for /other")
	}
}

func TestServerConn_ReadSeesClientClose(t *testing.T) {
	readErr := make(chan error, 1)
	addr := serveOne(t, func(sc *ws.ServerConn, err error) {
		if err != nil {
			readErr <- err
			return
		}
		defer sc.Close()
		_, err = sc.Read(context.Background())
		readErr <- err
	})

	c, _, err := websocket.Dial(context.Background(), "ws://"+addr+ws.Path, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	c.Close(websocket.StatusNormalClosure, "bye")

	select {
	case err := <-readErr:
		if err == nil {
			t.Fatal("Read() returned nil error after client close")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server Read() did not return after client close")
	}
}

func TestServerConn_ReadHonorsContext(t *testing.T) {
	readErr := make(chan error, 1)
	addr := serveOne(t, func(sc *ws.ServerConn, err error) {
		if err != nil {
			readErr <- err
			return
		}
		defer sc.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = sc.Read(ctx)
		readErr <- err
	})

	conn, err := ws.Dial(context.Background(), "ws://"+addr+ws.Path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	select {
	case err := <-readErr:
		var netErr net.Error
		if err == nil || errors.Is(err, io.EOF) || !errors.As(err, &netErr) || !netErr.Timeout() {
			t.Errorf("Read() error = %v, want a timeout", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read() ignored the context deadline")
	}
}
