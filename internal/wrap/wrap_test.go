package wrap

import (
	"context"
	"testing"
	"time"

	"github.com/chanconsole/chanconsole/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settle(r *stats.Registry) {
	deadline := time.Now().Add(time.Second)
	for r.QueueDepth() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
}

func TestBoundedSendRecvOrderPreserved(t *testing.T) {
	// P2: wrapped send/recv yields the same value sequence, in order.
	r := stats.NewRegistry()
	r.Start()
	tx, rx := NewBounded[int](10, "bounded_test.go:1", "", r)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, tx.Send(ctx, i))
	}
	for i := 0; i < 3; i++ {
		v, ok := rx.Recv(ctx)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	settle(r)
	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, uint64(3), snap[0].SentCount)
	assert.Equal(t, uint64(3), snap[0].ReceivedCount)
}

func TestBoundedClosedPropagation(t *testing.T) {
	r := stats.NewRegistry()
	r.Start()
	tx, rx := NewBounded[int](5, "bounded_test.go:2", "", r)
	ctx := context.Background()

	require.NoError(t, tx.Send(ctx, 1))
	v, ok := rx.Recv(ctx)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	tx.Close()
	_, ok = rx.Recv(ctx)
	assert.False(t, ok, "recv after close must observe end-of-stream")

	err := tx.Send(ctx, 2)
	assert.ErrorIs(t, err, ErrClosed)

	settle(r)
	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, stats.Closed, snap[0].State)
}

func TestBoundedSenderCloneSharesID(t *testing.T) {
	r := stats.NewRegistry()
	r.Start()
	tx, rx := NewBounded[string](3, "bounded_test.go:3", "", r)
	clone := tx.Clone()
	ctx := context.Background()

	require.NoError(t, tx.Send(ctx, "a"))
	require.NoError(t, clone.Send(ctx, "b"))

	// Closing one clone must not close the channel while the other is
	// still live.
	tx.Close()
	require.NoError(t, clone.Send(ctx, "c"))
	clone.Close()

	for i := 0; i < 3; i++ {
		_, ok := rx.Recv(ctx)
		require.True(t, ok)
	}
	_, ok := rx.Recv(ctx)
	assert.False(t, ok)

	settle(r)
	snap := r.Snapshot()
	require.Len(t, snap, 1, "clones share one record, not two")
	assert.Equal(t, uint64(3), snap[0].SentCount)
}

func TestUnboundedNeverBlocksAndPreservesOrder(t *testing.T) {
	r := stats.NewRegistry()
	r.Start()
	tx, rx := NewUnbounded[int]("unbounded_test.go:1", "", r)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, tx.Send(i))
	}
	tx.Close()

	for i := 0; i < 100; i++ {
		v, ok := rx.Recv(ctx)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := rx.Recv(ctx)
	assert.False(t, ok)

	settle(r)
	snap := r.Snapshot()
	assert.Equal(t, uint64(100), snap[0].SentCount)
	assert.Equal(t, uint64(100), snap[0].ReceivedCount)
	assert.Equal(t, stats.Closed, snap[0].State)
}

func TestOneshotNotified(t *testing.T) {
	// S3: successful send+recv ends Notified, not Closed.
	r := stats.NewRegistry()
	r.Start()
	tx, rx := NewOneshot[string]("oneshot_test.go:1", "hello-there", r)
	ctx := context.Background()

	require.NoError(t, tx.Send(ctx, "hi"))
	v, ok := rx.Recv(ctx)
	require.True(t, ok)
	assert.Equal(t, "hi", v)

	settle(r)
	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, stats.Notified, snap[0].State)
	assert.Equal(t, "hello-there", snap[0].Label)
}

func TestOneshotReceiverDroppedBeforeSend(t *testing.T) {
	r := stats.NewRegistry()
	r.Start()
	tx, rx := NewOneshot[string]("oneshot_test.go:2", "", r)
	ctx := context.Background()

	rx.Close()
	err := tx.Send(ctx, "too late")
	assert.ErrorIs(t, err, ErrClosed)

	settle(r)
	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, stats.Closed, snap[0].State)
}

func TestOneshotSenderDroppedBeforeSend(t *testing.T) {
	r := stats.NewRegistry()
	r.Start()
	tx, rx := NewOneshot[string]("oneshot_test.go:3", "", r)
	ctx := context.Background()

	tx.Close()
	_, ok := rx.Recv(ctx)
	assert.False(t, ok)

	settle(r)
	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, stats.Closed, snap[0].State)
}

func TestCancellationEmitsNothing(t *testing.T) {
	r := stats.NewRegistry()
	r.Start()
	_, rx := NewBounded[int](1, "bounded_test.go:4", "", r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := rx.Recv(ctx)
	assert.False(t, ok)

	settle(r)
	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, uint64(0), snap[0].ReceivedCount, "cancelled recv must not count as received")
	assert.Equal(t, stats.Active, snap[0].State, "cancellation must not transition state")
}
