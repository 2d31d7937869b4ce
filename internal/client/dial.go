package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/omochice/roomtalk/internal/transport"
	"github.com/omochice/roomtalk/internal/transport/tcp"
	"github.com/omochice/roomtalk/internal/transport/ws"
)

// Dialer opens a transport connection to the server at rawURL.
type Dialer func(ctx context.Context, rawURL string) (transport.Conn, error)

// DialURL picks the transport from the URL scheme: ws and wss dial a
// WebSocket, tcp dials a raw TCP frame connection to host:port.
func DialURL(ctx context.Context, rawURL string) (transport.Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse server URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
		return ws.Dial(ctx, rawURL)
	case "tcp":
		if u.Host == "" {
			return nil, fmt.Errorf("server URL %q has no host", rawURL)
		}
		return tcp.Dial(ctx, u.Host)
	default:
		return nil, fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}
}
