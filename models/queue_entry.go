// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// QueueOperation is the kind of change a SyncQueue row represents.
type QueueOperation string

const (
	QueueOpCreate QueueOperation = "create"
	QueueOpUpdate QueueOperation = "update"
	QueueOpDelete QueueOperation = "delete"
)

// QueuePriority orders processing within a batch: delete beats create
// beats update (spec §3 invariant — discards orphaned update/create work
// quickly once a delete for the same uuid is known).
type QueuePriority int

const (
	QueuePriorityUpdate QueuePriority = 1
	QueuePriorityCreate QueuePriority = 2
	QueuePriorityDelete QueuePriority = 3
)

// PriorityFor returns the fixed priority for op.
func PriorityFor(op QueueOperation) QueuePriority {
	switch op {
	case QueueOpDelete:
		return QueuePriorityDelete
	case QueueOpCreate:
		return QueuePriorityCreate
	default:
		return QueuePriorityUpdate
	}
}

// QueueStatus is the lifecycle state of a QueueEntry row. SyncQueue is the
// sole writer of Status/RetryCount/NextRetryAt/Error.
type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusCompleted  QueueStatus = "completed"
	QueueStatusFailed     QueueStatus = "failed"
)

// QueueEntry is one durable row of the sync queue.
type QueueEntry struct {
	ID int64 `json:"id"`

	// EntryID is nil for deletes of rows that no longer exist locally.
	EntryID   *int64         `json:"entry_id,omitempty"`
	EntryUUID string         `json:"entry_uuid"`
	Operation QueueOperation `json:"operation"`
	Priority  QueuePriority  `json:"priority"`

	// Payload is the merged update delta (shallow JSON object merge) for
	// update operations; nil for create/delete.
	Payload map[string]any `json:"payload,omitempty"`

	// EntryUpdatedAtWhenQueued snapshots Entry.UpdatedAt at enqueue time, so
	// the processor can detect and drop stale updates (spec §4.5 "conflict
	// gate").
	EntryUpdatedAtWhenQueued *int64 `json:"entry_updated_at_when_queued,omitempty"`

	Status      QueueStatus `json:"status"`
	Error       *string     `json:"error,omitempty"`
	RetryCount  int         `json:"retry_count"`
	NextRetryAt *int64      `json:"next_retry_at,omitempty"`

	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	ProcessedAt *int64 `json:"processed_at,omitempty"`
}

// TableName returns the name of the database table associated with
// QueueEntry.
func (QueueEntry) TableName() string {
	return "sync_queue"
}

// QueueStats summarizes row counts per status, as returned by
// SyncQueue.GetStats.
type QueueStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// RetryDelaysMS is the exponential, monotonic retry schedule of spec §4.5,
// indexed by attempt number (1-based: RetryDelaysMS[0] is the delay before
// attempt 2, after the first failure).
var RetryDelaysMS = [5]int64{1_000, 5_000, 15_000, 60_000, 300_000}

// MaxQueueRetries is the attempt count after which a queue row is marked
// failed and requires an explicit RetryFailed call.
const MaxQueueRetries = 5
