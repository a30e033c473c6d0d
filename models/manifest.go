// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ManifestEntry is one row of the server's document manifest: a cheap
// {uuid, updated_at} pair used by SyncManager.perform_reconciliation to
// diff local vs. server state without downloading full CRDT state.
type ManifestEntry struct {
	UUID      string `json:"uuid"`
	UpdatedAt int64  `json:"updatedAt"`
}

// ManifestResponse is the body of GET /api/documents/manifest.
type ManifestResponse struct {
	Documents []ManifestEntry `json:"documents"`
}
