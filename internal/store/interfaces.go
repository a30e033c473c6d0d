// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store provides data-access abstractions and concrete
// implementations for persisting domain objects on both sides of the sync
// core: a PostgreSQL-backed UserRepository on the server, and SQLite-backed
// repositories satisfying the client packages' own Store interfaces
// (syncqueue.Store, syncmanager.EntryStore, assetpipeline.Store).
package store

import (
	"context"

	"github.com/inkwell-dev/sync-core/internal/syncmanager"
	"github.com/inkwell-dev/sync-core/models"
)

// ClientEntryRepository extends [syncmanager.EntryStore] with the
// local-origin CRUD operations the operator console needs to create, edit,
// and archive entries before they ever reach the sync queue. The sync
// manager only ever sees the [syncmanager.EntryStore] subset of this
// interface.
type ClientEntryRepository interface {
	syncmanager.EntryStore

	// ListAll returns every non-archived local entry, most recently
	// updated first.
	ListAll(ctx context.Context) ([]models.Entry, error)

	// Create persists a new local entry from fields, assigning it a fresh
	// UUID and an initial sync status of pending.
	Create(ctx context.Context, fields models.SyncableFields) (models.Entry, error)

	// Update overwrites the syncable fields of the entry identified by
	// uuid and marks it modified.
	Update(ctx context.Context, uuid string, fields models.SyncableFields) (models.Entry, error)

	// SoftDelete sets archivedAt on the entry identified by uuid and marks
	// it modified, so the sync queue can propagate the tombstone.
	SoftDelete(ctx context.Context, uuid string, archivedAt int64) (models.Entry, error)
}

// UserRepository defines the database access contract for user accounts.
type UserRepository interface {
	// CreateUser persists a new user record and returns the created entity
	// with server-assigned fields (e.g. UserID, CreatedAt) populated.
	// Returns [ErrLoginAlreadyExists] if the email is already taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByLogin retrieves a user record matching the Email field
	// of the provided user model.
	// Returns [ErrNoUserWasFound] if no matching record exists.
	FindUserByLogin(ctx context.Context, user models.User) (models.User, error)

	// FindByID retrieves a user record by its server-assigned UserID.
	// Returns [ErrNoUserWasFound] if no matching record exists.
	FindByID(ctx context.Context, userID int64) (models.User, error)
}

// ErrorClassificator defines a strategy for categorizing errors produced
// by persistence layers (e.g. PostgreSQL driver errors) into well-known
// application-level classifications.
//
// Implementations inspect the underlying driver error (error codes, types)
// and return a corresponding [ErrorClassification] value that higher layers
// can switch on without coupling to a specific database driver.
type ErrorClassificator interface {
	// Classify maps an error into a predefined [ErrorClassification] enum.
	// If the error is not recognized, the implementation should return
	// a generic/unknown classification rather than panicking.
	Classify(err error) ErrorClassification
}
