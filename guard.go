package chanconsole

import (
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/chanconsole/chanconsole/internal/guardtable"
	"github.com/chanconsole/chanconsole/internal/lifecycle"
	"github.com/chanconsole/chanconsole/internal/stats"
)

// Format selects how ChannelsGuard renders its teardown summary.
type Format int

const (
	// Table renders an aligned, colorized column summary (the default).
	Table Format = iota
	// Json renders a compact single-line JSON array.
	Json
	// JsonPretty renders a multi-line indented JSON array.
	JsonPretty
)

// ChannelsGuard is a scoped handle that prints a summary of every
// instrumented channel when Release is called, typically via defer at the
// top of main. It never changes the registry's contents; it only reads a
// Snapshot at release time.
type ChannelsGuard struct {
	startTime time.Time
	format    Format
	out       io.Writer
}

// ChannelsGuardBuilder configures a ChannelsGuard before Build.
type ChannelsGuardBuilder struct {
	format Format
	out    io.Writer
}

// NewChannelsGuard returns a builder defaulted to Table format, writing to
// os.Stdout.
func NewChannelsGuard() *ChannelsGuardBuilder {
	return &ChannelsGuardBuilder{format: Table, out: os.Stdout}
}

// WithFormat overrides the render format.
func (b *ChannelsGuardBuilder) WithFormat(f Format) *ChannelsGuardBuilder {
	b.format = f
	return b
}

// WithWriter overrides the destination; tests use this to capture output.
func (b *ChannelsGuardBuilder) WithWriter(w io.Writer) *ChannelsGuardBuilder {
	b.out = w
	return b
}

// Build records the guard's start time and returns the ready handle.
func (b *ChannelsGuardBuilder) Build() *ChannelsGuard {
	return &ChannelsGuard{startTime: time.Now(), format: b.format, out: b.out}
}

// Release reads a snapshot of the registry and renders it per the guard's
// format. Safe to call more than once; each call reflects the registry's
// state at that moment (spec.md attaches no special meaning to which
// guard prints first).
func (g *ChannelsGuard) Release() {
	registry := lifecycle.Global()
	elapsed := time.Since(g.startTime)

	switch g.format {
	case Json:
		g.renderJSON(stats.SnapshotSerializable(registry), false)
	case JsonPretty:
		g.renderJSON(stats.SnapshotSerializable(registry), true)
	default:
		g.renderTable(registry.Snapshot(), elapsed)
	}
}

func (g *ChannelsGuard) renderTable(records []stats.Record, elapsed time.Duration) {
	if len(records) == 0 {
		fmt.Fprintln(g.out, "no instrumented channels")
		return
	}

	fmt.Fprintf(g.out, "chanconsole summary (%.2fs elapsed)\n", elapsed.Seconds())

	guardtable.Render(g.out, records)
}

func (g *ChannelsGuard) renderJSON(records []stats.Serializable, pretty bool) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(records, "", "  ")
	} else {
		data, err = jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(records)
	}
	if err != nil {
		fmt.Fprintf(g.out, "chanconsole: failed to render summary: %v\n", err)
		return
	}
	fmt.Fprintln(g.out, string(data))
}
