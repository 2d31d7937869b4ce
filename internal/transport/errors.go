package transport

import "errors"

var (
	// ErrNotConnected is returned when a frame is written with no live connection.
	ErrNotConnected = errors.New("not connected")
	// ErrQueueFull is returned when the outgoing queue cannot take another frame.
	ErrQueueFull = errors.New("outgoing queue full")
)
