// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-dev/sync-core/internal/logger"
)

func newTestRefreshTokenRepo(t *testing.T) (*refreshTokenRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	l := logger.Nop()
	repo := &refreshTokenRepository{db: &DB{DB: db, logger: l}, logger: l}
	return repo, mock, db
}

func TestRefreshTokenRepository_Create(t *testing.T) {
	repo, mock, db := newTestRefreshTokenRepo(t)
	defer db.Close()

	expiresAt := time.Now().Add(90 * 24 * time.Hour)
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(int64(1), "hash", expiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), 1, "hash", expiresAt)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_FindActiveByHash_Found(t *testing.T) {
	repo, mock, db := newTestRefreshTokenRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at"}).
		AddRow(1, 7, "hash", now.Add(time.Hour), now, nil)
	mock.ExpectQuery("SELECT id, user_id").WithArgs("hash").WillReturnRows(rows)

	tok, found, err := repo.FindActiveByHash(context.Background(), "hash")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(7), tok.UserID)
}

func TestRefreshTokenRepository_FindActiveByHash_Expired(t *testing.T) {
	repo, mock, db := newTestRefreshTokenRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at"}).
		AddRow(1, 7, "hash", now.Add(-time.Hour), now, nil)
	mock.ExpectQuery("SELECT id, user_id").WithArgs("hash").WillReturnRows(rows)

	_, found, err := repo.FindActiveByHash(context.Background(), "hash")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRefreshTokenRepository_FindActiveByHash_NotFound(t *testing.T) {
	repo, mock, db := newTestRefreshTokenRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, found, err := repo.FindActiveByHash(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRefreshTokenRepository_Revoke(t *testing.T) {
	repo, mock, db := newTestRefreshTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(sqlmock.AnyArg(), "hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Revoke(context.Background(), "hash")
	require.NoError(t, err)
}
