// Package queue implements the ordered hand-off buffer between log producers
// and the single writer goroutine.
//
// Items pop in the order the queue's critical section admitted them. Under
// contention producers race for that order, so it is a total order but not
// necessarily timestamp order.
package queue

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Policy decides what Push does when a bounded queue is full.
type Policy uint8

const (
	// Block makes the producer wait until the consumer frees a slot.
	Block Policy = iota
	// DropNewest refuses the pushed item.
	DropNewest
	// DropOldest evicts the oldest queued item to make room.
	DropOldest
)

func (p Policy) String() string {
	switch p {
	case Block:
		return "block"
	case DropNewest:
		return "drop_newest"
	case DropOldest:
		return "drop_oldest"
	default:
		return "unknown"
	}
}

var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
)

type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    []T
	capacity int // <= 0 means unbounded
	policy   Policy
	closed   bool

	dropped atomic.Uint64
}

// New creates a queue holding at most capacity items. A capacity <= 0 makes
// the queue unbounded and Push never blocks.
func New[T any](capacity int, policy Policy) *Queue[T] {
	q := &Queue[T]{
		capacity: capacity,
		policy:   policy,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends v. On a full bounded queue it blocks, refuses or evicts
// according to the policy. Push on a closed queue returns ErrClosed, and a
// producer blocked on a full queue is released with ErrClosed when the queue
// is closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	for q.capacity > 0 && len(q.items) >= q.capacity {
		switch q.policy {
		case DropNewest:
			q.dropped.Add(1)
			return ErrFull
		case DropOldest:
			q.popLocked()
			q.dropped.Add(1)
		default:
			q.notFull.Wait()
			if q.closed {
				return ErrClosed
			}
		}
	}

	q.items = append(q.items, v)
	q.notEmpty.Signal()
	return nil
}

// Pop removes the oldest item, blocking while the queue is empty. Once the
// queue is closed Pop keeps returning the remaining items and reports false
// only when nothing is left.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			var zero T
			return zero, false
		}
		q.notEmpty.Wait()
	}

	v := q.popLocked()
	q.notFull.Signal()
	return v, true
}

// Ensure that the caller holds the lock and the queue is not empty
func (q *Queue[T]) popLocked() T {
	var zero T
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return v
}

// Close stops accepting items and wakes every waiting producer and consumer.
// Items already queued stay available to Pop. Calling Close twice is a no-op.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many items were refused or evicted by the overflow
// policy.
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}

func (q *Queue[T]) Capacity() int {
	return q.capacity
}
