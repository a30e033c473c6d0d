// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package syncqueue implements the persistent, ordered push queue that
// drives every create/update/delete a client makes against the server
// (spec §4.5): priority ordering, debounced coalescing of rapid edits, a
// conflict gate against newer local state, and a monotonic exponential
// retry schedule.
package syncqueue

import (
	"context"

	"github.com/inkwell-dev/sync-core/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/syncqueue_mock.go -package=mock

// Store is the persistence boundary SyncQueue is built on. A single
// SQLite-backed implementation lives in internal/store; tests use an
// in-memory one.
type Store interface {
	// Insert adds a new row and returns its assigned ID.
	Insert(ctx context.Context, entry models.QueueEntry) (int64, error)

	// FindPendingUpdateByUUID returns the pending update row for uuid, if
	// any — used for update coalescing (at most one pending update per
	// uuid).
	FindPendingUpdateByUUID(ctx context.Context, uuid string) (models.QueueEntry, bool, error)

	// Update persists entry's mutable fields back by ID.
	Update(ctx context.Context, entry models.QueueEntry) error

	// NextBatch returns up to limit rows whose NextRetryAt is null or in
	// the past, ordered by priority DESC then CreatedAt ASC, restricted to
	// status=pending.
	NextBatch(ctx context.Context, limit int) ([]models.QueueEntry, error)

	// RetryFailed flips every failed row to pending, resetting RetryCount,
	// Error, and NextRetryAt.
	RetryFailed(ctx context.Context) error

	// ClearCompleted deletes every row with status=completed.
	ClearCompleted(ctx context.Context) error

	// Stats returns row counts grouped by status.
	Stats(ctx context.Context) (models.QueueStats, error)
}

// EntryLookup resolves the live Entry behind a queue row, used by the
// conflict gate.
type EntryLookup interface {
	// GetUpdatedAt returns the current updated_at of the entry identified
	// by uuid. ok is false if the entry no longer exists locally.
	GetUpdatedAt(ctx context.Context, uuid string) (updatedAt int64, ok bool, err error)
}

// SyncFunc performs the actual network push for one queue row. The caller
// (SyncManager wiring) supplies this; SyncQueue has no knowledge of
// transport.
type SyncFunc func(ctx context.Context, entry models.QueueEntry) error

// SyncQueue is the sole implementor of the SyncQueue contract (spec §4.5).
type SyncQueue interface {
	EnqueueCreate(ctx context.Context, entryID int64, uuid string, entryUpdatedAt int64) error
	EnqueueUpdate(ctx context.Context, entryID int64, uuid string, payload map[string]any, entryUpdatedAt int64) error

	// EnqueueUpdateDebounced holds the enqueue for a quiescence window;
	// further calls for the same uuid within the window reset the timer
	// and shallow-merge payloads (last writer wins per field).
	EnqueueUpdateDebounced(ctx context.Context, entryID int64, uuid string, payload map[string]any, entryUpdatedAt int64)

	EnqueueDelete(ctx context.Context, uuid string, entryID *int64) error

	GetNextBatch(ctx context.Context, limit int) ([]models.QueueEntry, error)
	RetryFailed(ctx context.Context) error
	ClearCompleted(ctx context.Context) error
	GetStats(ctx context.Context) (models.QueueStats, error)

	// Start launches the single worker loop that drains a batch at start,
	// on every poll tick and on every NotifyOnline signal, honoring retry
	// schedules. It returns immediately; call Stop to shut the loop down.
	Start(ctx context.Context, sync SyncFunc)

	// Stop halts the worker loop and waits for it to return; a batch in
	// progress stops after the row currently being processed.
	Stop()

	// NotifyOnline signals a network-up transition, triggering an
	// immediate fresh drain instead of waiting for the next poll tick.
	NotifyOnline()
}
