// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/syncqueue"
	"github.com/inkwell-dev/sync-core/models"
)

// queueRepository is the SQLite-backed implementation of [syncqueue.Store],
// persisting the push queue in the local "sync_queue" table.
type queueRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewQueueRepository constructs a [syncqueue.Store] backed by db.
func NewQueueRepository(db *DB, logger *logger.Logger) syncqueue.Store {
	logger.Debug().Msg("creating sync queue repository")
	return &queueRepository{db: db, logger: logger}
}

const queueColumns = "id, entry_id, entry_uuid, operation, priority, payload, entry_updated_at_when_queued, status, error, retry_count, next_retry_at, created_at, updated_at, processed_at"

func scanQueueEntry(row interface{ Scan(...any) error }) (models.QueueEntry, error) {
	var q models.QueueEntry
	var payloadJSON sql.NullString
	if err := row.Scan(
		&q.ID, &q.EntryID, &q.EntryUUID, &q.Operation, &q.Priority, &payloadJSON,
		&q.EntryUpdatedAtWhenQueued, &q.Status, &q.Error, &q.RetryCount, &q.NextRetryAt,
		&q.CreatedAt, &q.UpdatedAt, &q.ProcessedAt,
	); err != nil {
		return models.QueueEntry{}, err
	}
	if payloadJSON.Valid && payloadJSON.String != "" {
		if err := json.Unmarshal([]byte(payloadJSON.String), &q.Payload); err != nil {
			return models.QueueEntry{}, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	return q, nil
}

func (r *queueRepository) Insert(ctx context.Context, entry models.QueueEntry) (int64, error) {
	var payloadJSON []byte
	if entry.Payload != nil {
		var err error
		payloadJSON, err = json.Marshal(entry.Payload)
		if err != nil {
			return 0, fmt.Errorf("marshal payload: %w", err)
		}
	}

	query, args, err := sqlite.Insert("sync_queue").
		Columns("entry_id", "entry_uuid", "operation", "priority", "payload",
			"entry_updated_at_when_queued", "status", "error", "retry_count", "next_retry_at",
			"created_at", "updated_at", "processed_at").
		Values(entry.EntryID, entry.EntryUUID, entry.Operation, entry.Priority, nullableBytes(payloadJSON),
			entry.EntryUpdatedAtWhenQueued, entry.Status, entry.Error, entry.RetryCount, entry.NextRetryAt,
			entry.CreatedAt, entry.UpdatedAt, entry.ProcessedAt).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return res.LastInsertId()
}

func (r *queueRepository) FindPendingUpdateByUUID(ctx context.Context, uuid string) (models.QueueEntry, bool, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+queueColumns+" FROM sync_queue WHERE entry_uuid = ? AND operation = ? AND status = ? ORDER BY created_at DESC LIMIT 1",
		uuid, models.QueueOpUpdate, models.QueueStatusPending)
	q, err := scanQueueEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueueEntry{}, false, nil
	}
	if err != nil {
		return models.QueueEntry{}, false, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}
	return q, true, nil
}

func (r *queueRepository) Update(ctx context.Context, entry models.QueueEntry) error {
	var payloadJSON []byte
	if entry.Payload != nil {
		var err error
		payloadJSON, err = json.Marshal(entry.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
	}

	query, args, err := sqlite.Update("sync_queue").
		Set("entry_id", entry.EntryID).
		Set("entry_uuid", entry.EntryUUID).
		Set("operation", entry.Operation).
		Set("priority", entry.Priority).
		Set("payload", nullableBytes(payloadJSON)).
		Set("entry_updated_at_when_queued", entry.EntryUpdatedAtWhenQueued).
		Set("status", entry.Status).
		Set("error", entry.Error).
		Set("retry_count", entry.RetryCount).
		Set("next_retry_at", entry.NextRetryAt).
		Set("updated_at", entry.UpdatedAt).
		Set("processed_at", entry.ProcessedAt).
		Where(sq.Eq{"id": entry.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return nil
}

func (r *queueRepository) NextBatch(ctx context.Context, limit int) ([]models.QueueEntry, error) {
	query, args, err := sqlite.Select(queueColumns).
		From("sync_queue").
		Where(sq.Eq{"status": models.QueueStatusPending}).
		Where(sq.Or{sq.Eq{"next_retry_at": nil}, sq.LtOrEq{"next_retry_at": time.Now().UnixMilli()}}).
		OrderBy("priority DESC", "created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var out []models.QueueEntry
	for rows.Next() {
		q, err := scanQueueEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *queueRepository) RetryFailed(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sync_queue SET status = ?, retry_count = 0, error = NULL, next_retry_at = NULL WHERE status = ?",
		models.QueueStatusPending, models.QueueStatusFailed)
	if err != nil {
		return fmt.Errorf("retry failed: %w", err)
	}
	return nil
}

func (r *queueRepository) ClearCompleted(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sync_queue WHERE status = ?", models.QueueStatusCompleted)
	if err != nil {
		return fmt.Errorf("clear completed: %w", err)
	}
	return nil
}

func (r *queueRepository) Stats(ctx context.Context) (models.QueueStats, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM sync_queue GROUP BY status")
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var stats models.QueueStats
	for rows.Next() {
		var status models.QueueStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return models.QueueStats{}, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		switch status {
		case models.QueueStatusPending:
			stats.Pending = count
		case models.QueueStatusProcessing:
			stats.Processing = count
		case models.QueueStatusCompleted:
			stats.Completed = count
		case models.QueueStatusFailed:
			stats.Failed = count
		}
	}
	return stats, rows.Err()
}

// entryLookup is the SQLite-backed implementation of [syncqueue.EntryLookup],
// sharing the same "entries" table as [entryRepository].
type entryLookup struct {
	db *DB
}

// NewEntryLookup constructs a [syncqueue.EntryLookup] backed by db.
func NewEntryLookup(db *DB) syncqueue.EntryLookup {
	return &entryLookup{db: db}
}

func (l *entryLookup) GetUpdatedAt(ctx context.Context, uuid string) (int64, bool, error) {
	var updatedAt int64
	err := l.db.QueryRowContext(ctx, "SELECT updated_at FROM entries WHERE uuid = ?", uuid).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get updated_at: %w", err)
	}
	return updatedAt, true, nil
}

// nullableBytes converts an empty/nil byte slice to a nil any so it is
// stored as SQL NULL rather than an empty string.
func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
