package wrap

import (
	"context"
	"sync"

	"github.com/chanconsole/chanconsole/internal/stats"
)

// unboundedCore backs an UnboundedSender/UnboundedReceiver pair. Go has no
// native unbounded channel, so capacity is provided by a growable slice
// behind a mutex; Send never suspends because it only ever appends under
// a (uncontended, sub-microsecond) lock instead of competing for buffer
// space on a fixed-size native channel.
type unboundedCore[T any] struct {
	mu     sync.Mutex
	queue  []T
	notify chan struct{}
	closed bool
}

func newUnboundedCore[T any]() *unboundedCore[T] {
	return &unboundedCore[T]{notify: make(chan struct{}, 1)}
}

func (c *unboundedCore[T]) push(value T) {
	c.mu.Lock()
	c.queue = append(c.queue, value)
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *unboundedCore[T]) pop() (value T, ok bool, closed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) > 0 {
		value = c.queue[0]
		c.queue = c.queue[1:]
		return value, true, false
	}
	return value, false, c.closed
}

func (c *unboundedCore[T]) closeQueue() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// UnboundedSender is the producer handle for an unbounded MPSC channel.
type UnboundedSender[T any] struct {
	core  *unboundedCore[T]
	site  *site
	group *refGroup
}

// UnboundedReceiver is the single consumer handle for an unbounded
// channel.
type UnboundedReceiver[T any] struct {
	core *unboundedCore[T]
	site *site
}

// NewUnbounded creates an unbounded MPSC channel pair and registers it
// under id/label with emitter, emitting Created immediately.
func NewUnbounded[T any](id, label string, emitter Emitter) (*UnboundedSender[T], *UnboundedReceiver[T]) {
	core := newUnboundedCore[T]()
	s := newSite(id, emitter)
	typeName, typeSize := typeDescriptor[T]()
	s.emitCreated(label, stats.Unbounded(), typeName, typeSize)

	return &UnboundedSender[T]{core: core, site: s, group: newRefGroup()},
		&UnboundedReceiver[T]{core: core, site: s}
}

// Clone returns a new sender handle sharing this sender's producer group
// and backing queue. No event is emitted.
func (s *UnboundedSender[T]) Clone() *UnboundedSender[T] {
	s.group.clone()
	return &UnboundedSender[T]{core: s.core, site: s.site, group: s.group}
}

// Send enqueues value without suspending. On success it emits
// MessageSent; once the channel has reached a terminal state it returns
// ErrClosed and emits nothing.
func (s *UnboundedSender[T]) Send(value T) error {
	if s.site.isTerminal() {
		return ErrClosed
	}
	s.core.push(value)
	s.site.emitSent()
	return nil
}

// Close releases this producer handle; when the last clone releases,
// the queue is marked closed so outstanding and future Recv calls observe
// end-of-stream, and Closed is emitted once.
func (s *UnboundedSender[T]) Close() {
	if s.group.release() {
		s.site.markTerminal()
		s.core.closeQueue()
		s.site.emitClosed()
	}
}

// Recv dequeues the next value, suspending until one is available, ctx is
// cancelled, or the queue is closed. On success it emits MessageReceived;
// on end-of-stream it emits Closed (idempotently) and returns false.
func (r *UnboundedReceiver[T]) Recv(ctx context.Context) (T, bool) {
	for {
		if value, ok, closed := r.core.pop(); ok {
			r.site.emitReceived()
			return value, true
		} else if closed {
			r.site.markTerminal()
			r.site.emitClosed()
			var zero T
			return zero, false
		}

		select {
		case <-r.core.notify:
			continue
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// Close releases the consumer handle, making subsequent Send calls fail
// with ErrClosed instead of silently accumulating in an unread queue.
func (r *UnboundedReceiver[T]) Close() {
	r.site.markTerminal()
	r.site.emitClosed()
}
