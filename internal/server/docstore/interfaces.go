// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package docstore implements the server's CRDT document table (spec §4.11):
// the `documents` row per synced journal entry, keyed by UUID, that
// [wsgateway] persists on every inbound update and that the manifest
// endpoint diffs against client state.
package docstore

import (
	"context"

	"github.com/inkwell-dev/sync-core/models"
)

// Store is the persistence contract for CRDT document state.
type Store interface {
	// Upsert stores or replaces uuid's encoded CRDT state for userID,
	// stamping updated_at=now(). updatedBy is logged but not stored; the
	// documents table has no column for it. Creates the row if it does not
	// already exist.
	Upsert(ctx context.Context, uuid string, userID int64, state []byte, updatedBy string) error

	// GetByIDForUser returns uuid's stored state, but only when it is
	// owned by userID. found is false both when the document does not
	// exist and when it exists but belongs to someone else — callers that
	// need to distinguish the two call GetOwner first.
	GetByIDForUser(ctx context.Context, uuid string, userID int64) (state []byte, updatedAt int64, found bool, err error)

	// GetOwner returns the user ID that owns uuid, if the document exists
	// at all, regardless of who is asking.
	GetOwner(ctx context.Context, uuid string) (userID int64, found bool, err error)

	// Manifest returns a {uuid, updatedAt} pair for every non-deleted
	// document owned by userID.
	Manifest(ctx context.Context, userID int64) ([]models.ManifestEntry, error)
}
