// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package assetstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/inkwell-dev/sync-core/internal/logger"
)

// psql is the squirrel statement builder for this package's PostgreSQL
// queries against the "assets" table, which uses $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is the subset of *sql.DB this package needs, satisfied by
// *store.DB, which embeds *sql.DB.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repository struct {
	db      querier
	baseDir string
	logger  *logger.Logger
}

// NewStore constructs a [Store] that writes blob bytes under baseDir and
// records metadata in the "assets" table via db.
func NewStore(db querier, baseDir string, logger *logger.Logger) (Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create asset storage dir: %w", err)
	}
	logger.Debug().Str("dir", baseDir).Msg("creating asset store")
	return &repository{db: db, baseDir: baseDir, logger: logger}, nil
}

func (r *repository) Save(ctx context.Context, meta Asset, content io.Reader) (Asset, error) {
	id := uuid.NewString()
	meta.ID = id
	meta.StoragePath = filepath.Join(r.baseDir, id)

	f, err := os.OpenFile(meta.StoragePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return Asset{}, fmt.Errorf("create asset file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, content)
	if err != nil {
		os.Remove(meta.StoragePath)
		return Asset{}, fmt.Errorf("write asset content: %w", err)
	}
	meta.SizeBytes = written

	query, args, err := psql.Insert("assets").
		Columns("id", "entry_uuid", "user_id", "filename", "mime_type", "size_bytes", "storage_path",
			"is_encrypted", "wrapped_dek", "dek_nonce", "dek_auth_tag", "content_nonce", "content_auth_tag").
		Values(meta.ID, meta.EntryUUID, meta.UserID, meta.Filename, meta.MimeType, meta.SizeBytes, meta.StoragePath,
			meta.IsEncrypted, nullable(meta.WrappedDEK), nullable(meta.DEKNonce), nullable(meta.DEKAuthTag),
			nullable(meta.ContentNonce), nullable(meta.ContentAuthTag)).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		os.Remove(meta.StoragePath)
		return Asset{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var createdAt time.Time
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&createdAt); err != nil {
		os.Remove(meta.StoragePath)
		return Asset{}, fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	meta.CreatedAt = createdAt.Unix()
	return meta, nil
}

func (r *repository) GetMetadata(ctx context.Context, id string, userID int64) (Asset, bool, error) {
	return r.scanByID(ctx, id, userID)
}

func (r *repository) Open(ctx context.Context, id string, userID int64) (io.ReadCloser, Asset, bool, error) {
	meta, found, err := r.scanByID(ctx, id, userID)
	if err != nil || !found {
		return nil, Asset{}, found, err
	}
	f, err := os.Open(meta.StoragePath)
	if err != nil {
		return nil, Asset{}, false, fmt.Errorf("open asset content: %w", err)
	}
	return f, meta, true, nil
}

func (r *repository) Delete(ctx context.Context, id string, userID int64) (bool, error) {
	meta, found, err := r.scanByID(ctx, id, userID)
	if err != nil || !found {
		return found, err
	}

	query, args, err := psql.Delete("assets").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	if err := os.Remove(meta.StoragePath); err != nil && !os.IsNotExist(err) {
		r.logger.Err(err).Str("id", id).Msg("failed to remove asset file after deleting its row")
	}
	return true, nil
}

func (r *repository) scanByID(ctx context.Context, id string, userID int64) (Asset, bool, error) {
	query, args, err := psql.Select("id", "entry_uuid", "user_id", "filename", "mime_type", "size_bytes",
		"storage_path", "is_encrypted", "wrapped_dek", "dek_nonce", "dek_auth_tag", "content_nonce",
		"content_auth_tag", "created_at").
		From("assets").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return Asset{}, false, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var (
		a                                                               Asset
		wrappedDEK, dekNonce, dekAuthTag, contentNonce, contentAuthTag sql.NullString
		createdAt                                                      time.Time
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&a.ID, &a.EntryUUID, &a.UserID, &a.Filename, &a.MimeType, &a.SizeBytes, &a.StoragePath,
		&a.IsEncrypted, &wrappedDEK, &dekNonce, &dekAuthTag, &contentNonce, &contentAuthTag, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Asset{}, false, nil
		}
		return Asset{}, false, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}
	a.WrappedDEK, a.DEKNonce, a.DEKAuthTag = wrappedDEK.String, dekNonce.String, dekAuthTag.String
	a.ContentNonce, a.ContentAuthTag = contentNonce.String, contentAuthTag.String
	a.CreatedAt = createdAt.Unix()
	return a, true, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
