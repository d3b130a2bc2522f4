package chanconsole

import (
	"github.com/chanconsole/chanconsole/internal/chanid"
	"github.com/chanconsole/chanconsole/internal/lifecycle"
	"github.com/chanconsole/chanconsole/internal/wrap"
)

// InstrumentBounded creates a capacity-limited MPSC channel pair, identical
// in Send/Recv/Clone/Close behavior to one built directly on make(chan T,
// capacity), that also reports its lifecycle to the process-wide registry.
// An optional label overrides the default "<dir>/<file>:<line>" display
// name derived from the call site.
func InstrumentBounded[T any](capacity int, label ...string) (*wrap.BoundedSender[T], *wrap.BoundedReceiver[T]) {
	id := chanid.CaptureSite(chanid.CallerDepth)
	return wrap.NewBounded[T](capacity, id, chanid.ResolveLabel(id, firstLabel(label)), lifecycle.Global())
}

// InstrumentUnbounded creates an unbounded MPSC channel pair that reports
// its lifecycle to the process-wide registry. Send never suspends.
func InstrumentUnbounded[T any](label ...string) (*wrap.UnboundedSender[T], *wrap.UnboundedReceiver[T]) {
	id := chanid.CaptureSite(chanid.CallerDepth)
	return wrap.NewUnbounded[T](id, chanid.ResolveLabel(id, firstLabel(label)), lifecycle.Global())
}

// InstrumentOneshot creates a single-use channel pair that reports its
// lifecycle to the process-wide registry.
func InstrumentOneshot[T any](label ...string) (*wrap.OneshotSender[T], *wrap.OneshotReceiver[T]) {
	id := chanid.CaptureSite(chanid.CallerDepth)
	return wrap.NewOneshot[T](id, chanid.ResolveLabel(id, firstLabel(label)), lifecycle.Global())
}

func firstLabel(label []string) string {
	if len(label) == 0 {
		return ""
	}
	return label[0]
}

// ErrClosed is returned by Send when the channel's peer has already
// released its handle.
var ErrClosed = wrap.ErrClosed
