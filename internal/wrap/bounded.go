package wrap

import (
	"context"

	"github.com/chanconsole/chanconsole/internal/stats"
)

// BoundedSender is the producer handle for a capacity-limited MPSC
// channel. The zero value is not usable; construct with NewBounded or
// Clone an existing sender.
type BoundedSender[T any] struct {
	ch    chan T
	site  *site
	group *refGroup
}

// BoundedReceiver is the single consumer handle for a bounded channel.
type BoundedReceiver[T any] struct {
	ch   chan T
	site *site
}

// NewBounded creates a capacity-limited MPSC channel pair and registers
// it under id/label with emitter, emitting Created immediately.
func NewBounded[T any](capacity int, id, label string, emitter Emitter) (*BoundedSender[T], *BoundedReceiver[T]) {
	ch := make(chan T, capacity)
	s := newSite(id, emitter)
	typeName, typeSize := typeDescriptor[T]()
	s.emitCreated(label, stats.Bounded(capacity), typeName, typeSize)

	return &BoundedSender[T]{ch: ch, site: s, group: newRefGroup()},
		&BoundedReceiver[T]{ch: ch, site: s}
}

// Clone returns a new sender handle bound to the same channel and id,
// sharing this sender's producer group. No event is emitted (spec.md
// §4.D: "Emit no event on clone").
func (s *BoundedSender[T]) Clone() *BoundedSender[T] {
	s.group.clone()
	return &BoundedSender[T]{ch: s.ch, site: s.site, group: s.group}
}

// Send delivers value, suspending exactly as a native buffered channel
// send would until capacity is available or ctx is cancelled. If the
// channel is already terminal when Send is called it returns ErrClosed;
// a Send already waiting when the receiver is closed keeps waiting. On
// success it emits MessageSent; on failure nothing is emitted.
func (s *BoundedSender[T]) Send(ctx context.Context, value T) error {
	if s.site.isTerminal() {
		return ErrClosed
	}
	select {
	case s.ch <- value:
		s.site.emitSent()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases this producer handle. When the last clone in the group
// is released, the backing channel is natively closed unless the receiver
// was closed first (so outstanding Recv calls observe end-of-stream the
// normal Go way) and Closed is emitted once.
func (s *BoundedSender[T]) Close() {
	if s.group.release() {
		if s.site.markTerminal() {
			close(s.ch)
		}
		s.site.emitClosed()
	}
}

// Recv receives the next value. On success it emits MessageReceived and
// returns (value, true). On end-of-stream (all producers released) it
// emits Closed (idempotently) and returns the zero value and false. A
// cancelled ctx returns before either outcome and emits nothing.
func (r *BoundedReceiver[T]) Recv(ctx context.Context) (T, bool) {
	select {
	case value, ok := <-r.ch:
		if !ok {
			r.site.markTerminal()
			r.site.emitClosed()
			var zero T
			return zero, false
		}
		r.site.emitReceived()
		return value, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Close releases the consumer handle. Subsequent sender Send calls
// observe ErrClosed immediately rather than blocking forever against a
// channel nobody drains. Emits Closed at most once (I4), even if the
// producer side already triggered it.
func (r *BoundedReceiver[T]) Close() {
	r.site.markTerminal()
	r.site.emitClosed()
}
