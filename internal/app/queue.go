package app

import (
	"context"
	"sync"
)

// queue is an unbounded multi-producer FIFO. Senders never block, so a burst
// of messages grows memory instead of stalling the caller; there is no
// backpressure.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	notify chan struct{}
	done   chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// push appends v, reporting false once the queue is closed.
func (q *queue[T]) push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.wake()
	return true
}

func (q *queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// pop waits for the oldest item. Items queued before close are still
// delivered; after that it reports ok=false.
func (q *queue[T]) pop(ctx context.Context) (item T, ok bool, err error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item = q.items[0]
			var zero T
			q.items[0] = zero
			q.items = q.items[1:]
			more := len(q.items) > 0
			q.mu.Unlock()
			if more {
				q.wake()
			}
			return item, true, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return item, false, nil
		}

		select {
		case <-q.notify:
		case <-q.done:
		case <-ctx.Done():
			return item, false, ctx.Err()
		}
	}
}

func (q *queue[T]) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *queue[T]) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
