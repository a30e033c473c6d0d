package syncqueue

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/models"
	"github.com/stretchr/testify/require"
)

func withFixedClock(t *testing.T, start int64) func() {
	t.Helper()
	orig := nowFunc
	cur := start
	nowFunc = func() int64 { return cur }
	return func() { nowFunc = orig; _ = cur }
}

func TestEnqueueCreate_SetsCreatePriority(t *testing.T) {
	restore := withFixedClock(t, 1000)
	defer restore()

	store := newMemoryStore()
	q := New(store, newMemoryLookup())
	ctx := context.Background()

	require.NoError(t, q.EnqueueCreate(ctx, 1, "U1", 1000))

	batch, err := q.GetNextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, models.QueuePriorityCreate, batch[0].Priority)
}

func TestGetNextBatch_OrdersByPriorityThenCreatedAt(t *testing.T) {
	store := newMemoryStore()
	q := New(store, newMemoryLookup())
	ctx := context.Background()

	restore := withFixedClock(t, 1000)
	require.NoError(t, q.EnqueueUpdate(ctx, 1, "U1", map[string]any{"a": 1}, 1000))
	restore()

	restore = withFixedClock(t, 2000)
	require.NoError(t, q.EnqueueDelete(ctx, "U2", nil))
	restore()

	restore = withFixedClock(t, 3000)
	require.NoError(t, q.EnqueueCreate(ctx, 3, "U3", 3000))
	restore()

	batch, err := q.GetNextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i := 1; i < len(batch); i++ {
		require.GreaterOrEqual(t, batch[i-1].Priority, batch[i].Priority)
	}
	require.Equal(t, models.QueuePriorityDelete, batch[0].Priority)
}

func TestEnqueueUpdate_CoalescesIntoSingleRow(t *testing.T) {
	store := newMemoryStore()
	q := New(store, newMemoryLookup())
	ctx := context.Background()

	require.NoError(t, q.EnqueueUpdate(ctx, 1, "U1", map[string]any{"a": float64(1)}, 100))
	require.NoError(t, q.EnqueueUpdate(ctx, 1, "U1", map[string]any{"b": float64(2)}, 200))

	batch, err := q.GetNextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, batch[0].Payload)
}

func TestEnqueueUpdateDebounced_BurstProducesOneRowWithMergedPayload(t *testing.T) {
	store := newMemoryStore()
	q := New(store, newMemoryLookup())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		q.EnqueueUpdateDebounced(ctx, 1, "U", map[string]any{"title": "k" + string(rune('0'+i))}, int64(100+i))
		time.Sleep(50 * time.Millisecond)
	}

	time.Sleep(debounceWindow + 200*time.Millisecond)

	batch, err := q.GetNextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, "k9", batch[0].Payload["title"])
}

func TestProcessOne_StaleUpdateIsDropped(t *testing.T) {
	store := newMemoryStore()
	lookup := newMemoryLookup()
	lookup.set("U1", 500) // live entry is newer than when queued

	q := New(store, lookup).(*syncQueue)
	ctx := context.Background()

	require.NoError(t, q.EnqueueUpdate(ctx, 1, "U1", map[string]any{"a": 1}, 100))
	batch, err := q.GetNextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	called := false
	q.processOne(ctx, batch[0], func(ctx context.Context, e models.QueueEntry) error {
		called = true
		return nil
	})

	require.False(t, called, "sync_fn must not be invoked for a stale row")

	stats, err := q.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Completed)
}

func TestProcessOne_RetrySchedule(t *testing.T) {
	restore := withFixedClock(t, 0)
	defer restore()

	store := newMemoryStore()
	q := New(store, newMemoryLookup()).(*syncQueue)
	ctx := context.Background()

	require.NoError(t, q.EnqueueCreate(ctx, 1, "U1", 0))
	batch, err := q.GetNextBatch(ctx, 10)
	require.NoError(t, err)

	failErr := context.DeadlineExceeded
	q.processOne(ctx, batch[0], func(ctx context.Context, e models.QueueEntry) error {
		return failErr
	})

	row := store.rows[batch[0].ID]
	require.Equal(t, 1, row.RetryCount)
	require.NotNil(t, row.NextRetryAt)
	require.Equal(t, models.RetryDelaysMS[0], *row.NextRetryAt)
}

func TestProcessOne_AccessDeniedNeverRetried(t *testing.T) {
	store := newMemoryStore()
	q := New(store, newMemoryLookup()).(*syncQueue)
	ctx := context.Background()

	require.NoError(t, q.EnqueueCreate(ctx, 1, "U1", 0))
	batch, err := q.GetNextBatch(ctx, 10)
	require.NoError(t, err)

	q.processOne(ctx, batch[0], func(ctx context.Context, e models.QueueEntry) error {
		return apperr.New(apperr.AccessDenied, "test", apperr.ErrWrongRecipient)
	})

	row := store.rows[batch[0].ID]
	require.Equal(t, models.QueueStatusFailed, row.Status)
	require.Equal(t, 0, row.RetryCount)
}

func TestRetryFailed_ResetsFailedRows(t *testing.T) {
	store := newMemoryStore()
	q := New(store, newMemoryLookup())
	ctx := context.Background()

	id, err := store.Insert(ctx, models.QueueEntry{EntryUUID: "U1", Operation: models.QueueOpCreate, Status: models.QueueStatusFailed, RetryCount: 5})
	require.NoError(t, err)

	require.NoError(t, q.RetryFailed(ctx))

	row := store.rows[id]
	require.Equal(t, models.QueueStatusPending, row.Status)
	require.Equal(t, 0, row.RetryCount)
}
