package client

// ConnectionState is the state of the client's link to the server.
type ConnectionState int

const (
	// StateDisconnected means the client is not connected.
	StateDisconnected ConnectionState = iota

	// StateConnecting means the first connection attempt is in progress.
	StateConnecting

	// StateConnected means frames flow in both directions.
	StateConnected

	// StateReconnecting means the client lost the server and is retrying.
	StateReconnecting

	// StateClosed means Run has returned.
	StateClosed
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
