package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/omochice/roomtalk/pkg/protocol"
)

// DefaultQueueSize is the outgoing buffer used when none is configured.
const DefaultQueueSize = 64

// Queue is a bounded outgoing buffer in front of a Conn, drained by Run.
// Enqueueing never blocks; frames that do not fit are rejected.
type Queue struct {
	conn      Conn
	outgoing  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a Queue for conn. A non-positive size selects
// DefaultQueueSize.
func NewQueue(conn Conn, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		conn:     conn,
		outgoing: make(chan []byte, size),
		done:     make(chan struct{}),
	}
}

// Enqueue buffers data for writing.
func (q *Queue) Enqueue(data []byte) error {
	select {
	case <-q.done:
		return ErrNotConnected
	default:
	}
	select {
	case q.outgoing <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// WriteFrame encodes f and enqueues it.
func (q *Queue) WriteFrame(f protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	if err := q.Enqueue(data); err != nil {
		return fmt.Errorf("write %s: %w", f.Event, err)
	}
	return nil
}

// Run writes queued frames to the connection until ctx ends, Close is
// called or a write fails. Frames still queued when it returns are lost.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case data := <-q.outgoing:
			if err := q.conn.Write(ctx, data); err != nil {
				return err
			}
		}
	}
}

// Close stops Run and rejects further frames. It does not close the Conn.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Len reports the number of frames waiting to be written.
func (q *Queue) Len() int {
	return len(q.outgoing)
}

var _ FrameWriter = (*Queue)(nil)
