// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/syncmanager"
	"github.com/inkwell-dev/sync-core/internal/utils"
	"github.com/inkwell-dev/sync-core/models"
)

// entryRepository is the SQLite-backed implementation of
// [syncmanager.EntryStore], persisting plaintext entries in the local
// "entries" table (migrations/sqlite/00001_client_schema.sql).
type entryRepository struct {
	db     *DB
	logger *logger.Logger
	uuids  *utils.UUIDGenerator
}

// NewEntryRepository constructs a [ClientEntryRepository] backed by db.
func NewEntryRepository(db *DB, logger *logger.Logger) ClientEntryRepository {
	logger.Debug().Msg("creating entry repository")
	return &entryRepository{db: db, logger: logger, uuids: utils.NewUUIDGenerator()}
}

const entryColumns = "id, uuid, type, title, blocks, tags, attachments, is_favorite, is_pinned, archived_at, agent_id, created_at, updated_at, sync_status, server_updated_at, last_synced_at"

func scanEntry(row interface{ Scan(...any) error }) (models.Entry, error) {
	var e models.Entry
	var blocksJSON, tagsJSON, attachmentsJSON string
	if err := row.Scan(
		&e.ID, &e.UUID, &e.Type, &e.Title, &blocksJSON, &tagsJSON, &attachmentsJSON,
		&e.IsFavorite, &e.IsPinned, &e.ArchivedAt, &e.AgentID,
		&e.CreatedAt, &e.UpdatedAt, &e.SyncStatus, &e.ServerUpdatedAt, &e.LastSyncedAt,
	); err != nil {
		return models.Entry{}, err
	}
	if err := json.Unmarshal([]byte(blocksJSON), &e.Blocks); err != nil {
		return models.Entry{}, fmt.Errorf("unmarshal blocks: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
		return models.Entry{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(attachmentsJSON), &e.Attachments); err != nil {
		return models.Entry{}, fmt.Errorf("unmarshal attachments: %w", err)
	}
	return e, nil
}

func (r *entryRepository) GetByID(ctx context.Context, entryID int64) (models.Entry, bool, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE id = ?", entryID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, false, nil
	}
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("get entry by id: %w", err)
	}
	return e, true, nil
}

func (r *entryRepository) GetByUUID(ctx context.Context, uuid string) (models.Entry, bool, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE uuid = ?", uuid)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, false, nil
	}
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("get entry by uuid: %w", err)
	}
	return e, true, nil
}

func (r *entryRepository) ListManifest(ctx context.Context) ([]models.ManifestEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT uuid, updated_at FROM entries WHERE uuid != '' AND archived_at IS NULL")
	if err != nil {
		return nil, fmt.Errorf("list manifest: %w", err)
	}
	defer rows.Close()

	var out []models.ManifestEntry
	for rows.Next() {
		var m models.ManifestEntry
		if err := rows.Scan(&m.UUID, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *entryRepository) AssignUUID(ctx context.Context, entryID int64) (models.Entry, error) {
	entry, found, err := r.GetByID(ctx, entryID)
	if err != nil {
		return models.Entry{}, err
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	if entry.UUID != "" {
		return entry, nil
	}

	entry.UUID = r.uuids.Generate()
	if _, err := r.db.ExecContext(ctx, "UPDATE entries SET uuid = ? WHERE id = ?", entry.UUID, entry.ID); err != nil {
		return models.Entry{}, fmt.Errorf("assign uuid: %w", err)
	}
	return entry, nil
}

// Upsert inserts or updates the local row for fields.UUID to match fields
// exactly, used when applying remote state (pull or live incoming update).
func (r *entryRepository) Upsert(ctx context.Context, fields models.SyncableFields, serverUpdatedAt int64) error {
	blocksJSON, err := json.Marshal(fields.Blocks)
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}
	tagsJSON, err := json.Marshal(fields.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	attachmentsJSON, err := json.Marshal(fields.Attachments)
	if err != nil {
		return fmt.Errorf("marshal attachments: %w", err)
	}

	_, existed, err := r.GetByUUID(ctx, fields.UUID)
	if err != nil {
		return err
	}

	if existed {
		query, args, err := sqlite.Update("entries").
			Set("type", fields.Type).
			Set("title", fields.Title).
			Set("blocks", string(blocksJSON)).
			Set("tags", string(tagsJSON)).
			Set("attachments", string(attachmentsJSON)).
			Set("is_favorite", fields.IsFavorite).
			Set("is_pinned", fields.IsPinned).
			Set("archived_at", fields.ArchivedAt).
			Set("agent_id", fields.AgentID).
			Set("created_at", fields.CreatedAt).
			Set("updated_at", fields.UpdatedAt).
			Set("sync_status", models.SyncStatusSynced).
			Set("server_updated_at", serverUpdatedAt).
			Set("last_synced_at", fields.UpdatedAt).
			Where(sq.Eq{"uuid": fields.UUID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
		}
		return nil
	}

	query, args, err := sqlite.Insert("entries").
		Columns("uuid", "type", "title", "blocks", "tags", "attachments", "is_favorite", "is_pinned",
			"archived_at", "agent_id", "created_at", "updated_at", "sync_status", "server_updated_at", "last_synced_at").
		Values(fields.UUID, fields.Type, fields.Title, string(blocksJSON), string(tagsJSON), string(attachmentsJSON),
			fields.IsFavorite, fields.IsPinned, fields.ArchivedAt, fields.AgentID, fields.CreatedAt, fields.UpdatedAt,
			models.SyncStatusSynced, serverUpdatedAt, fields.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return nil
}

// ListAll returns every non-archived local entry, most recently updated
// first.
func (r *entryRepository) ListAll(ctx context.Context) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE archived_at IS NULL ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var out []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create persists a new local entry from fields, assigning it a fresh UUID
// and an initial sync status of pending.
func (r *entryRepository) Create(ctx context.Context, fields models.SyncableFields) (models.Entry, error) {
	fields.UUID = r.uuids.Generate()

	blocksJSON, tagsJSON, attachmentsJSON, err := marshalEntryLists(fields)
	if err != nil {
		return models.Entry{}, err
	}

	query, args, err := sqlite.Insert("entries").
		Columns("uuid", "type", "title", "blocks", "tags", "attachments", "is_favorite", "is_pinned",
			"archived_at", "agent_id", "created_at", "updated_at", "sync_status", "server_updated_at", "last_synced_at").
		Values(fields.UUID, fields.Type, fields.Title, blocksJSON, tagsJSON, attachmentsJSON,
			fields.IsFavorite, fields.IsPinned, fields.ArchivedAt, fields.AgentID, fields.CreatedAt, fields.UpdatedAt,
			models.SyncStatusPending, 0, 0).
		ToSql()
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	entry, found, err := r.GetByUUID(ctx, fields.UUID)
	if err != nil {
		return models.Entry{}, err
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// Update overwrites the syncable fields of the entry identified by uuid and
// marks it modified.
func (r *entryRepository) Update(ctx context.Context, uuid string, fields models.SyncableFields) (models.Entry, error) {
	blocksJSON, tagsJSON, attachmentsJSON, err := marshalEntryLists(fields)
	if err != nil {
		return models.Entry{}, err
	}

	query, args, err := sqlite.Update("entries").
		Set("type", fields.Type).
		Set("title", fields.Title).
		Set("blocks", blocksJSON).
		Set("tags", tagsJSON).
		Set("attachments", attachmentsJSON).
		Set("is_favorite", fields.IsFavorite).
		Set("is_pinned", fields.IsPinned).
		Set("agent_id", fields.AgentID).
		Set("updated_at", fields.UpdatedAt).
		Set("sync_status", models.SyncStatusModified).
		Where(sq.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	entry, found, err := r.GetByUUID(ctx, uuid)
	if err != nil {
		return models.Entry{}, err
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// SoftDelete sets archivedAt on the entry identified by uuid and marks it
// modified, so the sync queue can propagate the tombstone.
func (r *entryRepository) SoftDelete(ctx context.Context, uuid string, archivedAt int64) (models.Entry, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE entries SET archived_at = ?, updated_at = ?, sync_status = ? WHERE uuid = ?",
		archivedAt, archivedAt, models.SyncStatusModified, uuid)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	entry, found, err := r.GetByUUID(ctx, uuid)
	if err != nil {
		return models.Entry{}, err
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

func marshalEntryLists(fields models.SyncableFields) (blocksJSON, tagsJSON, attachmentsJSON string, err error) {
	b, err := json.Marshal(fields.Blocks)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal blocks: %w", err)
	}
	t, err := json.Marshal(fields.Tags)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal tags: %w", err)
	}
	a, err := json.Marshal(fields.Attachments)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal attachments: %w", err)
	}
	return string(b), string(t), string(a), nil
}

func (r *entryRepository) MarkSynced(ctx context.Context, uuid string, serverUpdatedAt int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE entries SET sync_status = ?, server_updated_at = ?, last_synced_at = ? WHERE uuid = ?",
		models.SyncStatusSynced, serverUpdatedAt, serverUpdatedAt, uuid)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}
