// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/server/metrics"
	"github.com/inkwell-dev/sync-core/models"
)

// psql is the squirrel statement builder for this package's PostgreSQL
// queries against the "documents" table, which uses $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is the subset of *sql.DB this package needs, satisfied by
// *store.DB, which embeds *sql.DB.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repository struct {
	db     querier
	logger *logger.Logger
}

// NewStore constructs a [Store] backed by the given PostgreSQL connection.
func NewStore(db querier, logger *logger.Logger) Store {
	logger.Debug().Msg("creating document store")
	return &repository{db: db, logger: logger}
}

func (r *repository) Upsert(ctx context.Context, uuid string, userID int64, state []byte, updatedBy string) error {
	query, args, err := psql.Insert("documents").
		Columns("uuid", "user_id", "state", "updated_at", "created_at", "deleted").
		Values(uuid, userID, state, sq.Expr("extract(epoch from now())::bigint"), sq.Expr("extract(epoch from now())::bigint"), false).
		Suffix(`ON CONFLICT (uuid) DO UPDATE SET
			state = EXCLUDED.state,
			updated_at = extract(epoch from now())::bigint,
			deleted = false`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	metrics.DocumentUpsertsTotal.WithLabelValues("success").Inc()
	r.logger.Debug().Str("uuid", uuid).Int64("user_id", userID).Str("updated_by", updatedBy).Msg("upserted document")
	return nil
}

func (r *repository) GetByIDForUser(ctx context.Context, uuid string, userID int64) ([]byte, int64, bool, error) {
	query, args, err := psql.Select("state", "updated_at").
		From("documents").
		Where(sq.Eq{"uuid": uuid, "user_id": userID, "deleted": false}).
		ToSql()
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var state []byte
	var updatedAt int64
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&state, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}
	return state, updatedAt, true, nil
}

func (r *repository) GetOwner(ctx context.Context, uuid string) (int64, bool, error) {
	query, args, err := psql.Select("user_id").
		From("documents").
		Where(sq.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var userID int64
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}
	return userID, true, nil
}

func (r *repository) Manifest(ctx context.Context, userID int64) ([]models.ManifestEntry, error) {
	query, args, err := psql.Select("uuid", "updated_at").
		From("documents").
		Where(sq.Eq{"user_id": userID, "deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	defer rows.Close()

	var entries []models.ManifestEntry
	for rows.Next() {
		var e models.ManifestEntry
		if err := rows.Scan(&e.UUID, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
	}
	return entries, nil
}
