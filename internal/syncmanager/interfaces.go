// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package syncmanager is the orchestrator (spec §4.7): it wires
// KeyManager, EntryCodec, CRDTMapper, SyncClient and SyncQueue together
// into the three user-facing operations —
// reconciliation on startup, and open/close lifecycle for a single entry
// being actively edited.
package syncmanager

//go:generate mockgen -source=interfaces.go -destination=../mock/syncmanager_mock.go -package=mock

import (
	"context"

	"github.com/inkwell-dev/sync-core/models"
)

// EntryStore is the local persistence boundary SyncManager reads and
// writes plaintext entries through. A SQLite-backed implementation lives
// in internal/store; tests use an in-memory one.
type EntryStore interface {
	// GetByID returns the entry with the given local ID.
	GetByID(ctx context.Context, entryID int64) (models.Entry, bool, error)

	// GetByUUID returns the entry with the given UUID.
	GetByUUID(ctx context.Context, uuid string) (models.Entry, bool, error)

	// ListManifest returns {uuid, updated_at} for every non-deleted local
	// entry that has a UUID assigned.
	ListManifest(ctx context.Context) ([]models.ManifestEntry, error)

	// AssignUUID sets a fresh UUID on the entry with the given ID if it
	// does not already have one, and returns the (possibly unchanged)
	// entry.
	AssignUUID(ctx context.Context, entryID int64) (models.Entry, error)

	// Upsert inserts or updates the local row for fields.UUID to match
	// fields exactly, used when applying remote state (pull or live
	// incoming update).
	Upsert(ctx context.Context, fields models.SyncableFields, serverUpdatedAt int64) error

	// MarkSynced records that uuid's local content matches server state
	// as of serverUpdatedAt.
	MarkSynced(ctx context.Context, uuid string, serverUpdatedAt int64) error
}

// ManifestFetcher retrieves the server's {uuid, updated_at} manifest for
// the authenticated user (REST, spec §4.11).
type ManifestFetcher interface {
	FetchManifest(ctx context.Context) ([]models.ManifestEntry, error)
}

// Manager is the sole implementor of the SyncManager contract.
type Manager interface {
	// Start wires the SyncQueue's worker loop to this manager's push
	// logic and begins processing. Must be called once before any other
	// method.
	Start(ctx context.Context)

	// Stop tears down the SyncQueue worker and disconnects every open
	// WebSocket session.
	Stop()

	// PerformReconciliation diffs the server manifest against local
	// state and pushes, pulls, or no-ops per uuid (spec §4.7 step 2).
	PerformReconciliation(ctx context.Context) error

	// OpenEntry connects entryID's document, waits for initial sync,
	// reconciles it individually, and installs a live observer that
	// applies remote updates to the local row while the entry is open.
	OpenEntry(ctx context.Context, entryID int64) error

	// CloseEntry removes the live observer and disconnects entryID's
	// document session.
	CloseEntry(entryID int64)

	// EntryCreated enqueues a create operation for the given entry.
	EntryCreated(ctx context.Context, entry models.Entry) error

	// EntryUpdated enqueues a debounced update operation carrying the
	// changed fields.
	EntryUpdated(ctx context.Context, entry models.Entry, changedFields map[string]any) error

	// EntryDeleted enqueues a delete operation for uuid.
	EntryDeleted(ctx context.Context, uuid string) error
}
