// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/models"
)

// UEKRepository persists the server-opaque half of the per-user key
// hierarchy (table "user_uek"): a wrapped UEK blob the server stores and
// returns verbatim but can never unwrap.
type UEKRepository interface {
	// Upsert stores or replaces userID's wrapped UEK record.
	Upsert(ctx context.Context, rec models.UEKServerRecord) error

	// Get returns userID's wrapped UEK record, if one has been registered.
	Get(ctx context.Context, userID int64) (models.UEKServerRecord, bool, error)
}

type uekRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUEKRepository constructs a [UEKRepository] backed by the provided
// PostgreSQL connection.
func NewUEKRepository(db *DB, logger *logger.Logger) UEKRepository {
	logger.Debug().Msg("creating UEK repository")
	return &uekRepository{db: db, logger: logger}
}

func (r *uekRepository) Upsert(ctx context.Context, rec models.UEKServerRecord) error {
	query, args, err := psql.Insert("user_uek").
		Columns("user_id", "wrapped_uek", "salt", "nonce", "auth_tag", "version").
		Values(rec.UserID, rec.WrappedUEK, rec.Salt, rec.Nonce, rec.AuthTag, rec.Version).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			wrapped_uek = EXCLUDED.wrapped_uek,
			salt = EXCLUDED.salt,
			nonce = EXCLUDED.nonce,
			auth_tag = EXCLUDED.auth_tag,
			version = EXCLUDED.version`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return nil
}

func (r *uekRepository) Get(ctx context.Context, userID int64) (models.UEKServerRecord, bool, error) {
	query, args, err := psql.Select("user_id", "wrapped_uek", "salt", "nonce", "auth_tag", "version").
		From("user_uek").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return models.UEKServerRecord{}, false, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var rec models.UEKServerRecord
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&rec.UserID, &rec.WrappedUEK, &rec.Salt, &rec.Nonce, &rec.AuthTag, &rec.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UEKServerRecord{}, false, nil
		}
		return models.UEKServerRecord{}, false, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}
	return rec, true, nil
}
