package broadcast

import (
	"context"
	"sync"
)

// Message carries one broadcast payload.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster. Safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the message channel. It is closed when the subscriber
	// or its broadcaster is closed.
	Receive(ctx context.Context) <-chan Message[T]

	// Close stops delivery and closes the channel. Idempotent.
	Close() error
}

// Broadcaster fans messages out to every active subscriber.
// Slow consumers lose messages instead of blocking the sender.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that lives until ctx is cancelled,
	// the subscriber is closed, or the broadcaster is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast sends msg to all active subscribers.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close closes all subscribers. Later Subscribe calls return closed
	// subscribers and Broadcast becomes a no-op.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{ch: make(chan Message[T], bufferSize)}
}

func (s *subscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send never blocks. Returns false when the buffer is full or the
// subscriber is closed.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
