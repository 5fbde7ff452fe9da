package fifoqueue

import (
	"fmt"
	mathbits "math/bits"
	"sync"

	"github.com/ef-ds/deque"
)

// FifoQueue implements a concurrency safe FIFO queue with max capacity and length
// observer. Elements that exceed the queue's max capacity are silently dropped.
// By default, the capacity equals the largest `int` value; it can be set at
// construction time via the option `WithCapacity`. Each time the queue's length
// changes, the QueueLengthObserver is called with the new length.
//
// Caution: the QueueLengthObserver must be non-blocking.
type FifoQueue[T any] struct {
	mu             sync.RWMutex
	queue          deque.Deque
	maxCapacity    int
	lengthObserver QueueLengthObserver
}

// ConstructorOption is an optional argument of NewFifoQueue.
type ConstructorOption[T any] func(*FifoQueue[T]) error

// QueueLengthObserver is a callback that can optionally provided
// to the `NewFifoQueue` constructor (via `WithLengthObserver` option).
type QueueLengthObserver func(int)

// WithCapacity specifies the max number of elements the queue can hold.
func WithCapacity[T any](capacity int) ConstructorOption[T] {
	return func(queue *FifoQueue[T]) error {
		if capacity < 1 {
			return fmt.Errorf("capacity for Fifo queue must be positive")
		}
		queue.maxCapacity = capacity
		return nil
	}
}

// WithLengthObserver installs a callback invoked with the new length on every change.
func WithLengthObserver[T any](callback QueueLengthObserver) ConstructorOption[T] {
	return func(queue *FifoQueue[T]) error {
		if callback == nil {
			return fmt.Errorf("nil is not a valid QueueLengthObserver")
		}
		queue.lengthObserver = callback
		return nil
	}
}

// NewFifoQueue is the constructor for FifoQueue.
func NewFifoQueue[T any](options ...ConstructorOption[T]) (*FifoQueue[T], error) {
	maxInt := 1<<(mathbits.UintSize-1) - 1

	queue := &FifoQueue[T]{
		maxCapacity:    maxInt,
		lengthObserver: func(int) {},
	}
	for _, opt := range options {
		err := opt(queue)
		if err != nil {
			return nil, fmt.Errorf("failed to apply constructor option to fifoqueue queue: %w", err)
		}
	}
	return queue, nil
}

// Push appends the given value to the tail of the queue.
// If queue capacity is reached, the element is silently dropped and false returned.
func (q *FifoQueue[T]) Push(element T) bool {
	length, pushed := q.push(element)
	if pushed {
		q.lengthObserver(length)
	}
	return pushed
}

func (q *FifoQueue[T]) push(element T) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	length := q.queue.Len()
	if length < q.maxCapacity {
		q.queue.PushBack(element)
		return length + 1, true
	}
	return length, false
}

// Front peeks the head of the queue without removing it.
func (q *FifoQueue[T]) Front() (T, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	head, ok := q.queue.Front()
	if !ok {
		var zero T
		return zero, false
	}
	return head.(T), true
}

// Pop removes and returns the queue's head element.
func (q *FifoQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	head, ok := q.queue.PopFront()
	length := q.queue.Len()
	q.mu.Unlock()

	if !ok {
		var zero T
		return zero, false
	}
	q.lengthObserver(length)
	return head.(T), true
}

// Clear drops all elements.
func (q *FifoQueue[T]) Clear() {
	q.mu.Lock()
	q.queue.Init()
	q.mu.Unlock()
	q.lengthObserver(0)
}

// Len returns the current length of the queue.
func (q *FifoQueue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.queue.Len()
}
