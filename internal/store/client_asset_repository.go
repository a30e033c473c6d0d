// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/assetpipeline"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/models"
)

// assetRepository is the SQLite-backed implementation of
// [assetpipeline.Store], persisting the upload queue in the local
// "asset_uploads" table.
type assetRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAssetRepository constructs an [assetpipeline.Store] backed by db.
func NewAssetRepository(db *DB, logger *logger.Logger) assetpipeline.Store {
	logger.Debug().Msg("creating asset upload repository")
	return &assetRepository{db: db, logger: logger}
}

const assetColumns = "id, entry_id, local_path, remote_url, file_size, status, error, retry_count, created_at, updated_at"

func scanAssetUpload(row interface{ Scan(...any) error }) (models.AssetUpload, error) {
	var a models.AssetUpload
	if err := row.Scan(
		&a.ID, &a.EntryID, &a.LocalPath, &a.RemoteURL, &a.FileSize,
		&a.Status, &a.Error, &a.RetryCount, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return models.AssetUpload{}, err
	}
	return a, nil
}

func (r *assetRepository) Insert(ctx context.Context, upload models.AssetUpload) (int64, error) {
	query, args, err := sqlite.Insert("asset_uploads").
		Columns("entry_id", "local_path", "remote_url", "file_size", "status", "error", "retry_count", "created_at", "updated_at").
		Values(upload.EntryID, upload.LocalPath, upload.RemoteURL, upload.FileSize, upload.Status, upload.Error, upload.RetryCount, upload.CreatedAt, upload.UpdatedAt).
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

func (r *assetRepository) Update(ctx context.Context, upload models.AssetUpload) error {
	query, args, err := sqlite.Update("asset_uploads").
		Set("remote_url", upload.RemoteURL).
		Set("status", upload.Status).
		Set("error", upload.Error).
		Set("retry_count", upload.RetryCount).
		Set("updated_at", upload.UpdatedAt).
		Where(sq.Eq{"id": upload.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return nil
}

func (r *assetRepository) NextPending(ctx context.Context, limit int) ([]models.AssetUpload, error) {
	query, args, err := sqlite.Select(assetColumns).
		From("asset_uploads").
		Where(sq.Eq{"status": models.AssetStatusPending}).
		OrderBy("created_at ASC").
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

	var out []models.AssetUpload
	for rows.Next() {
		a, err := scanAssetUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
