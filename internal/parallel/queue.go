package parallel

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrQueueClosed is returned by Push once the queue has been closed.
	ErrQueueClosed = errors.New("parallel: queue closed")
	// ErrQueueDrained is returned by Pop when the queue is closed and empty.
	ErrQueueDrained = errors.New("parallel: queue drained")
)

// Queue is a bounded multi-producer multi-consumer FIFO. Pop blocks until a
// value is available, the queue is closed and empty, or the context ends.
// Consumers never poll.
type Queue[T any] struct {
	items     chan T
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue returns an open queue able to hold capacity values without
// blocking producers.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[T]{
		items: make(chan T, capacity),
		done:  make(chan struct{}),
	}
}

// NewQueueFrom returns a closed queue pre-filled with values, in order.
func NewQueueFrom[T any](values []T) *Queue[T] {
	q := NewQueue[T](len(values))
	for _, v := range values {
		q.items <- v
	}
	q.Close()
	return q
}

// Push appends v, blocking while the queue is full.
func (q *Queue[T]) Push(ctx context.Context, v T) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.items <- v:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the end of production. Values already queued remain available
// to Pop. Close is idempotent.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Pop removes the oldest value. It returns ErrQueueDrained once the queue is
// closed and empty, or the context error if ctx ends first.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-q.items:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-q.done:
	}
	// Closed: hand out what is left before reporting the queue drained.
	select {
	case v := <-q.items:
		return v, nil
	default:
		return zero, ErrQueueDrained
	}
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return len(q.items)
}
