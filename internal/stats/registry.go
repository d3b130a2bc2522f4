// Package stats implements the statistics core described in spec.md §4.B
// and §4.C: a buffered event channel, a single collator goroutine that
// applies events to a registry, and a reader/writer-locked map supporting
// consistent, label-ordered snapshots.
package stats

import (
	"sort"
	"sync"
)

// eventBufferSize is generous enough that a burst of sends from many
// wrapped endpoints never blocks the hot path under normal load; if it
// ever does fill up, Emit drops the event rather than block (fail-open,
// spec.md §4.D/§7).
const eventBufferSize = 4096

// Registry owns the channel records for the lifetime of the process. A
// Registry must be started with Start before Snapshot reflects anything;
// until then Snapshot returns empty and Emit only buffers events (up to
// eventBufferSize) for the collator to apply once started.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record

	startOnce sync.Once
	events     chan Event
	stopped    chan struct{}

	// OnApplied, if set before the first Emit, is invoked by the collator goroutine
	// after each event is applied, while still holding no lock. Used by
	// internal/metricsrv to drive the websocket push stream and by the
	// admin server to count applied events. Never invoked concurrently
	// with itself (single collator goroutine).
	OnApplied func(Event)
}

// NewRegistry constructs an unstarted Registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*Record),
		events:  make(chan Event, eventBufferSize),
		stopped: make(chan struct{}),
	}
}

// Start launches the collator goroutine exactly once. Subsequent calls
// are no-ops, matching spec.md's one-shot initialization cell.
func (r *Registry) Start() {
	r.startOnce.Do(func() {
		go r.collate()
	})
}

func (r *Registry) collate() {
	defer close(r.stopped)
	for ev := range r.events {
		r.apply(ev)
		if r.OnApplied != nil {
			r.OnApplied(ev)
		}
	}
}

// Emit enqueues an event for the collator. It never blocks the caller: if
// the buffer is saturated the event is dropped silently, and if the
// registry was never started the event is simply queued until Start is
// called (so Emit is safe to call before Start from a racing first
// instrumentation).
func (r *Registry) Emit(ev Event) {
	select {
	case r.events <- ev:
	default:
	}
}

func (r *Registry) apply(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case EventCreated:
		if _, exists := r.records[ev.ID]; exists {
			// Tolerates rare benign races during lazy initialization.
			return
		}
		r.records[ev.ID] = &Record{
			ID:       ev.ID,
			Label:    ev.Label,
			Kind:     ev.ChanKind,
			State:    Active,
			TypeName: ev.TypeName,
			TypeSize: ev.TypeSize,
		}
	case EventMessageSent:
		if rec, ok := r.records[ev.ID]; ok {
			rec.SentCount++
			rec.updateState()
		}
	case EventMessageReceived:
		if rec, ok := r.records[ev.ID]; ok {
			rec.ReceivedCount++
			rec.updateState()
		}
	case EventClosed:
		if rec, ok := r.records[ev.ID]; ok && rec.State != Notified {
			rec.State = Closed
		}
	case EventNotified:
		if rec, ok := r.records[ev.ID]; ok {
			rec.State = Notified
		}
	}
}

// Snapshot returns a point-in-time copy of every record, sorted by
// resolved display label ascending. Label resolution happens in the
// caller-visible layer (internal/chanid) so the registry itself stays
// free of that concern; Snapshot sorts by Record.Label as already
// resolved at Created-event time.
func (r *Registry) Snapshot() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

// Len reports the number of distinct instrumented channels, used by the
// admin server's self-metrics gauge.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// QueueDepth reports how many events are currently buffered but not yet
// applied, used by the admin server's self-metrics gauge.
func (r *Registry) QueueDepth() int {
	return len(r.events)
}
