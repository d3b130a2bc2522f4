package chanconsole

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanconsole/chanconsole/internal/chanid"
	"github.com/chanconsole/chanconsole/internal/lifecycle"
)

func TestInstrumentBoundedLabelDefaultsToCallSite(t *testing.T) {
	tx, rx := InstrumentBounded[string](4)
	_, file, line, _ := runtime.Caller(0)
	id := fmt.Sprintf("%s:%d", file, line-1)
	defer tx.Close()
	defer rx.Close()

	require.NoError(t, tx.Send(context.Background(), "hi"))
	v, ok := rx.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, "hi", v)

	time.Sleep(20 * time.Millisecond)
	var label string
	for _, rec := range lifecycle.Global().Snapshot() {
		if rec.ID == id {
			label = rec.Label
		}
	}
	assert.Equal(t, chanid.ResolveLabel(id, ""), label)
}

func TestInstrumentUnboundedExplicitLabel(t *testing.T) {
	tx, rx := InstrumentUnbounded[int]("queue-under-test")
	defer tx.Close()
	defer rx.Close()

	require.NoError(t, tx.Send(7))
	v, ok := rx.Recv(context.Background())
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestInstrumentOneshotDeliversOnce(t *testing.T) {
	tx, rx := InstrumentOneshot[bool]("done-signal")
	require.NoError(t, tx.Send(context.Background(), true))
	v, ok := rx.Recv(context.Background())
	require.True(t, ok)
	assert.True(t, v)
}

func TestChannelsGuardRendersTable(t *testing.T) {
	tx, rx := InstrumentBounded[int](2, "guard-test-channel")
	require.NoError(t, tx.Send(context.Background(), 1))
	_, _ = rx.Recv(context.Background())
	time.Sleep(20 * time.Millisecond)

	var buf bytes.Buffer
	guard := NewChannelsGuard().WithWriter(&buf).Build()
	guard.Release()

	out := buf.String()
	assert.Contains(t, out, "guard-test-channel")
	assert.Contains(t, out, "elapsed")

	tx.Close()
	rx.Close()
}

func TestChannelsGuardRendersJSON(t *testing.T) {
	var buf bytes.Buffer
	guard := NewChannelsGuard().WithFormat(Json).WithWriter(&buf).Build()
	guard.Release()
	assert.Contains(t, buf.String(), "[")
}
