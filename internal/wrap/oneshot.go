package wrap

import (
	"context"
	"sync/atomic"

	"github.com/chanconsole/chanconsole/internal/stats"
)

// OneshotSender is the single-use producer handle for a oneshot channel.
// Send (or Close) consumes it; Go has no move semantics to enforce this
// at compile time, so a second call after either is a no-op/ErrClosed.
type OneshotSender[T any] struct {
	ch   chan T
	site *site
	used atomic.Bool
}

// OneshotReceiver is the single-use consumer handle for a oneshot
// channel.
type OneshotReceiver[T any] struct {
	ch   chan T
	site *site
}

// NewOneshot creates a single-use channel pair and registers it under
// id/label with emitter, emitting Created immediately.
func NewOneshot[T any](id, label string, emitter Emitter) (*OneshotSender[T], *OneshotReceiver[T]) {
	ch := make(chan T, 1)
	s := newSite(id, emitter)
	typeName, typeSize := typeDescriptor[T]()
	s.emitCreated(label, stats.Oneshot(), typeName, typeSize)

	return &OneshotSender[T]{ch: ch, site: s}, &OneshotReceiver[T]{ch: ch, site: s}
}

// Send delivers value exactly once. On success it emits MessageSent then
// Notified (the consumer has been signaled). If the receiver was already
// released it returns ErrClosed and emits Closed instead, propagating no
// event for the attempted send. If Send or Close was already called it
// returns ErrClosed and emits nothing. Exactly one of {MessageSent, Closed-by-sender-failure}
// ever occurs for a given oneshot, matching spec.md §4.D's invariant.
func (s *OneshotSender[T]) Send(ctx context.Context, value T) error {
	if !s.used.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if s.site.isTerminal() {
		s.site.emitClosed()
		return ErrClosed
	}

	select {
	case s.ch <- value:
		s.site.emitSent()
		s.site.markTerminal()
		s.site.emitNotified()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the sender without sending a value (the Go substitute
// for "the sender was dropped"). A no-op if Send already succeeded.
// Emits Closed once.
func (s *OneshotSender[T]) Close() {
	if !s.used.CompareAndSwap(false, true) {
		return
	}
	s.site.markTerminal()
	s.site.emitClosed()
	close(s.ch)
}

// Recv awaits the single value. On success it emits MessageReceived (and
// Notified, if the sender's own Notified emission hasn't already fired)
// and returns (value, true). If the sender released without sending, it
// emits Closed and returns the zero value and false.
func (r *OneshotReceiver[T]) Recv(ctx context.Context) (T, bool) {
	select {
	case value, ok := <-r.ch:
		if !ok {
			r.site.markTerminal()
			r.site.emitClosed()
			var zero T
			return zero, false
		}
		r.site.emitReceived()
		r.site.emitNotified()
		return value, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Close releases the receiver before a value arrives, the Go substitute
// for "the receiver was dropped before send". Causes a concurrent or
// subsequent Send to observe ErrClosed instead of delivering into a
// channel nobody will read.
func (r *OneshotReceiver[T]) Close() {
	r.site.markTerminal()
	r.site.emitClosed()
}
