// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package docstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-dev/sync-core/internal/logger"
)

func newTestStore(t *testing.T) (*repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := &repository{db: db, logger: logger.Nop()}
	return repo, mock, db
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO documents").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), "doc-1", 1, []byte("state"), "session-a")
	require.NoError(t, err)
}

func TestRepository_GetByIDForUser_Found(t *testing.T) {
	repo, mock, db := newTestStore(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"state", "updated_at"}).AddRow([]byte("state"), int64(100))
	mock.ExpectQuery("SELECT state, updated_at").
		WithArgs("doc-1", int64(1), false).
		WillReturnRows(rows)

	state, updatedAt, found, err := repo.GetByIDForUser(context.Background(), "doc-1", 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("state"), state)
	require.Equal(t, int64(100), updatedAt)
}

func TestRepository_GetByIDForUser_NotFound(t *testing.T) {
	repo, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT state, updated_at").
		WillReturnError(sql.ErrNoRows)

	_, _, found, err := repo.GetByIDForUser(context.Background(), "doc-1", 1)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRepository_GetOwner(t *testing.T) {
	repo, mock, db := newTestStore(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id"}).AddRow(int64(42))
	mock.ExpectQuery("SELECT user_id").WithArgs("doc-1").WillReturnRows(rows)

	owner, found, err := repo.GetOwner(context.Background(), "doc-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(42), owner)
}

func TestRepository_GetOwner_NotFound(t *testing.T) {
	repo, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id").WillReturnError(sql.ErrNoRows)

	_, found, err := repo.GetOwner(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRepository_Manifest(t *testing.T) {
	repo, mock, db := newTestStore(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"uuid", "updated_at"}).
		AddRow("doc-1", int64(100)).
		AddRow("doc-2", int64(200))
	mock.ExpectQuery("SELECT uuid, updated_at").WithArgs(int64(7), false).WillReturnRows(rows)

	entries, err := repo.Manifest(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "doc-1", entries[0].UUID)
}
