// Package wrap implements the transparent proxy wrappers described in
// spec.md §4.D: bounded MPSC, unbounded MPSC, and oneshot channel pairs
// that forward every operation unchanged while emitting lifecycle events
// to an Emitter. Go has no destructors, so where spec.md's model relies on
// drop order, these types expose an explicit Close method instead (see
// SPEC_FULL.md §4.D).
package wrap

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/chanconsole/chanconsole/internal/stats"
)

// Emitter is the minimal surface a wrapper needs from the statistics
// core. *stats.Registry satisfies it; tests can substitute a recorder.
type Emitter interface {
	Emit(stats.Event)
}

// site is the shared, per-instantiation bookkeeping for one channel: its
// id, the emitter it reports to, and the terminal/close-once state shared
// by every clone of a sender and the receiver.
type site struct {
	id      string
	emitter Emitter

	terminal   atomic.Bool
	closeOnce  sync.Once
	notifyOnce sync.Once
}

func newSite(id string, emitter Emitter) *site {
	return &site{id: id, emitter: emitter}
}

func typeDescriptor[T any]() (name string, size uint64) {
	var zero T
	return fmt.Sprintf("%T", zero), uint64(unsafe.Sizeof(zero))
}

func (s *site) emitCreated(label string, kind stats.Kind, typeName string, typeSize uint64) {
	s.emitter.Emit(stats.Event{
		Kind:     stats.EventCreated,
		ID:       s.id,
		Label:    label,
		ChanKind: kind,
		TypeName: typeName,
		TypeSize: typeSize,
	})
}

func (s *site) emitSent() {
	s.emitter.Emit(stats.Event{Kind: stats.EventMessageSent, ID: s.id})
}

func (s *site) emitReceived() {
	s.emitter.Emit(stats.Event{Kind: stats.EventMessageReceived, ID: s.id})
}

// emitNotified fires Notified at most once per site, so a receiver that
// observes a value after the sender already reported success doesn't
// double-report the same transition (spec.md §4.D: "emit MessageReceived
// (and Notified if not already emitted)").
func (s *site) emitNotified() {
	s.notifyOnce.Do(func() {
		s.emitter.Emit(stats.Event{Kind: stats.EventNotified, ID: s.id})
	})
}

// emitClosed fires Closed at most once per site (I4), regardless of how
// many callers observe the closure (sender-group drain, receiver close,
// or both racing).
func (s *site) emitClosed() {
	s.closeOnce.Do(func() {
		s.emitter.Emit(stats.Event{Kind: stats.EventClosed, ID: s.id})
	})
}

// markTerminal flips the shared terminal flag and reports whether this
// call was the one that did it (CAS semantics), so callers can tell "I
// closed it" from "it was already closed".
func (s *site) markTerminal() bool {
	return s.terminal.CompareAndSwap(false, true)
}

func (s *site) isTerminal() bool {
	return s.terminal.Load()
}

// refGroup tracks the number of live producer handles sharing one site,
// so that a bounded/unbounded sender's last Close() (the Go substitute for
// "last clone dropped") is the one that fires Closed and, for Bounded,
// natively closes the backing channel.
type refGroup struct {
	count atomic.Int32
}

func newRefGroup() *refGroup {
	g := &refGroup{}
	g.count.Store(1)
	return g
}

func (g *refGroup) clone() { g.count.Add(1) }

// release decrements the group and reports whether this was the last
// live producer.
func (g *refGroup) release() bool {
	return g.count.Add(-1) == 0
}
