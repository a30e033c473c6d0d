// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncqueue

import (
	"context"
	"sync"
	"time"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/models"
)

// debounceWindow is the quiescence period spec §4.5 requires
// EnqueueUpdateDebounced to hold before committing a coalesced write.
const debounceWindow = 500 * time.Millisecond

// pollInterval is how often the worker loop wakes on its own, independent
// of NotifyOnline signals, to pick up rows whose NextRetryAt has elapsed.
const pollInterval = 2 * time.Second

// nowFunc is overridable in tests.
var nowFunc = func() int64 { return time.Now().UnixMilli() }

type pendingDebounce struct {
	entryID        int64
	uuid           string
	payload        map[string]any
	entryUpdatedAt int64
	timer          *time.Timer
}

type syncQueue struct {
	store  Store
	lookup EntryLookup

	mu        sync.Mutex
	debounced map[string]*pendingDebounce

	cancel context.CancelFunc
	wg     sync.WaitGroup
	wake   chan struct{}
}

// New constructs a [SyncQueue] backed by store and lookup.
func New(store Store, lookup EntryLookup) SyncQueue {
	return &syncQueue{
		store:     store,
		lookup:    lookup,
		debounced: make(map[string]*pendingDebounce),
		wake:      make(chan struct{}, 1),
	}
}

func (q *syncQueue) EnqueueCreate(ctx context.Context, entryID int64, uuid string, entryUpdatedAt int64) error {
	now := nowFunc()
	_, err := q.store.Insert(ctx, models.QueueEntry{
		EntryID:                  &entryID,
		EntryUUID:                uuid,
		Operation:                models.QueueOpCreate,
		Priority:                 models.PriorityFor(models.QueueOpCreate),
		EntryUpdatedAtWhenQueued: &entryUpdatedAt,
		Status:                   models.QueueStatusPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	})
	return err
}

func (q *syncQueue) EnqueueUpdate(ctx context.Context, entryID int64, uuid string, payload map[string]any, entryUpdatedAt int64) error {
	existing, found, err := q.store.FindPendingUpdateByUUID(ctx, uuid)
	if err != nil {
		return err
	}

	now := nowFunc()
	if found && existing.Operation == models.QueueOpUpdate {
		existing.Payload = mergePayload(existing.Payload, payload)
		existing.EntryUpdatedAtWhenQueued = &entryUpdatedAt
		existing.UpdatedAt = now
		return q.store.Update(ctx, existing)
	}

	_, err = q.store.Insert(ctx, models.QueueEntry{
		EntryID:                  &entryID,
		EntryUUID:                uuid,
		Operation:                models.QueueOpUpdate,
		Priority:                 models.PriorityFor(models.QueueOpUpdate),
		Payload:                  payload,
		EntryUpdatedAtWhenQueued: &entryUpdatedAt,
		Status:                   models.QueueStatusPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	})
	return err
}

func mergePayload(base, incoming map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(incoming))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

func (q *syncQueue) EnqueueUpdateDebounced(ctx context.Context, entryID int64, uuid string, payload map[string]any, entryUpdatedAt int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, ok := q.debounced[uuid]
	if ok {
		pending.payload = mergePayload(pending.payload, payload)
		pending.entryUpdatedAt = entryUpdatedAt
		pending.timer.Stop()
	} else {
		pending = &pendingDebounce{
			entryID:        entryID,
			uuid:           uuid,
			payload:        payload,
			entryUpdatedAt: entryUpdatedAt,
		}
		q.debounced[uuid] = pending
	}

	pending.timer = time.AfterFunc(debounceWindow, func() {
		q.mu.Lock()
		p, still := q.debounced[uuid]
		if still {
			delete(q.debounced, uuid)
		}
		q.mu.Unlock()
		if !still {
			return
		}
		_ = q.EnqueueUpdate(ctx, p.entryID, p.uuid, p.payload, p.entryUpdatedAt)
	})
}

func (q *syncQueue) EnqueueDelete(ctx context.Context, uuid string, entryID *int64) error {
	now := nowFunc()
	_, err := q.store.Insert(ctx, models.QueueEntry{
		EntryID:   entryID,
		EntryUUID: uuid,
		Operation: models.QueueOpDelete,
		Priority:  models.PriorityFor(models.QueueOpDelete),
		Status:    models.QueueStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}

func (q *syncQueue) GetNextBatch(ctx context.Context, limit int) ([]models.QueueEntry, error) {
	return q.store.NextBatch(ctx, limit)
}

func (q *syncQueue) RetryFailed(ctx context.Context) error {
	return q.store.RetryFailed(ctx)
}

func (q *syncQueue) ClearCompleted(ctx context.Context) error {
	return q.store.ClearCompleted(ctx)
}

func (q *syncQueue) GetStats(ctx context.Context) (models.QueueStats, error) {
	return q.store.Stats(ctx)
}

func (q *syncQueue) NotifyOnline() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Start launches the single worker loop (spec §4.5 "processing model": one
// worker per queue instance, sequential within a batch).
func (q *syncQueue) Start(ctx context.Context, sync SyncFunc) {
	q.Stop()

	loopCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.wg.Add(1)

	go func() {
		defer q.wg.Done()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			q.drainOnce(loopCtx, sync)
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
			case <-q.wake:
			}
		}
	}()
}

func (q *syncQueue) Stop() {
	if q.cancel == nil {
		return
	}
	cancel := q.cancel
	q.cancel = nil
	cancel()
	q.wg.Wait()
}

func (q *syncQueue) drainOnce(ctx context.Context, sync SyncFunc) {
	const batchSize = 20
	batch, err := q.store.NextBatch(ctx, batchSize)
	if err != nil || len(batch) == 0 {
		return
	}

	for _, entry := range batch {
		if ctx.Err() != nil {
			return
		}
		q.processOne(ctx, entry, sync)
	}
}

// processOne applies the conflict gate, then calls sync once, rescheduling
// on failure per the retry schedule.
func (q *syncQueue) processOne(ctx context.Context, entry models.QueueEntry, sync SyncFunc) {
	if entry.Operation == models.QueueOpUpdate && entry.EntryUpdatedAtWhenQueued != nil {
		liveUpdatedAt, ok, err := q.lookup.GetUpdatedAt(ctx, entry.EntryUUID)
		if err == nil && ok && liveUpdatedAt > *entry.EntryUpdatedAtWhenQueued {
			// Stale: a newer item will be queued to replace it.
			entry.Status = models.QueueStatusCompleted
			entry.ProcessedAt = ptrInt64(nowFunc())
			_ = q.store.Update(ctx, entry)
			return
		}
	}

	entry.Status = models.QueueStatusProcessing
	_ = q.store.Update(ctx, entry)

	err := sync(ctx, entry)
	now := nowFunc()
	if err == nil {
		entry.Status = models.QueueStatusCompleted
		entry.Error = nil
		entry.NextRetryAt = nil
		entry.ProcessedAt = ptrInt64(now)
		entry.UpdatedAt = now
		_ = q.store.Update(ctx, entry)
		return
	}

	if apperr.Is(err, apperr.AccessDenied) || apperr.Is(err, apperr.Corruption) {
		entry.Status = models.QueueStatusFailed
		msg := err.Error()
		entry.Error = &msg
		entry.UpdatedAt = now
		_ = q.store.Update(ctx, entry)
		return
	}

	entry.RetryCount++
	msg := err.Error()
	entry.Error = &msg
	entry.UpdatedAt = now

	if entry.RetryCount >= models.MaxQueueRetries {
		entry.Status = models.QueueStatusFailed
		_ = q.store.Update(ctx, entry)
		return
	}

	delay := models.RetryDelaysMS[entry.RetryCount-1]
	next := now + delay
	entry.Status = models.QueueStatusPending
	entry.NextRetryAt = &next
	_ = q.store.Update(ctx, entry)
}

func ptrInt64(v int64) *int64 { return &v }
