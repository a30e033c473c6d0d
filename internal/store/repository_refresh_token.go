// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/models"
)

// RefreshTokenRepository persists the server half of the refresh-token
// lifecycle (table "refresh_tokens") used by AuthService's refresh/logout
// flows. Tokens are stored by their hash, never in plaintext.
type RefreshTokenRepository interface {
	// Create persists a new refresh token hash for userID, expiring at
	// expiresAt.
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error

	// FindActiveByHash returns the token record matching tokenHash, only if
	// it has not been revoked and has not expired.
	FindActiveByHash(ctx context.Context, tokenHash string) (models.RefreshToken, bool, error)

	// Revoke marks tokenHash as revoked. Revoking an already-revoked or
	// unknown hash is a no-op, matching logout's best-effort semantics.
	Revoke(ctx context.Context, tokenHash string) error
}

type refreshTokenRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewRefreshTokenRepository constructs a [RefreshTokenRepository] backed by
// the provided PostgreSQL connection.
func NewRefreshTokenRepository(db *DB, logger *logger.Logger) RefreshTokenRepository {
	logger.Debug().Msg("creating refresh token repository")
	return &refreshTokenRepository{db: db, logger: logger}
}

func (r *refreshTokenRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query, args, err := psql.Insert("refresh_tokens").
		Columns("user_id", "token_hash", "expires_at").
		Values(userID, tokenHash, expiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return nil
}

func (r *refreshTokenRepository) FindActiveByHash(ctx context.Context, tokenHash string) (models.RefreshToken, bool, error) {
	query, args, err := psql.Select("id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at").
		From("refresh_tokens").
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return models.RefreshToken{}, false, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var t models.RefreshToken
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RefreshToken{}, false, nil
		}
		return models.RefreshToken{}, false, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}

	if t.RevokedAt != nil || time.Now().After(t.ExpiresAt) {
		return models.RefreshToken{}, false, nil
	}
	return t, true, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	query, args, err := psql.Update("refresh_tokens").
		Set("revoked_at", time.Now()).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return nil
}
