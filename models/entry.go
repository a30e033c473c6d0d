// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// EntryType is the semantic type of a journal entry.
type EntryType string

const (
	EntryTypeJournal   EntryType = "journal"
	EntryTypeChat      EntryType = "chat"
	EntryTypeCountdown EntryType = "countdown"
)

// SyncStatus tracks where an Entry sits in the client/server reconciliation
// lifecycle. Transitions are restricted to pending→synced, modified→synced,
// synced→modified, and *→conflict (spec §3 invariant (c)).
type SyncStatus string

const (
	SyncStatusPending  SyncStatus = "pending"
	SyncStatusModified SyncStatus = "modified"
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusConflict SyncStatus = "conflict"
)

// Block is one ordered content node inside an Entry's body. The concrete
// shape of Content is owned by the editor layer (out of scope here); the
// sync core treats it as opaque JSON that rides inside the encrypted
// envelope.
type Block struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// Entry is the canonical plaintext record owned by the client's EntryStore.
// Only the fields listed in EntryCodec's canonical JSON subset ever leave
// the device in cleartext form; everything else stays local.
type Entry struct {
	// ID is the local monotonic integer primary key.
	ID int64 `json:"id"`

	// UUID is the stable cross-device identifier. Every entry intended for
	// sync must have a non-null UUID before its first enqueue (spec §3
	// invariant (a)).
	UUID string `json:"uuid"`

	Type  EntryType `json:"type"`
	Title string    `json:"title"`
	Blocks []Block  `json:"blocks"`
	Tags   []string `json:"tags"`

	// Attachments holds the asset ids referenced by this entry's blocks.
	Attachments []string `json:"attachments"`

	IsFavorite bool `json:"is_favorite"`
	IsPinned   bool `json:"is_pinned"`

	// ArchivedAt is nil when the entry is not archived.
	ArchivedAt *int64 `json:"archived_at,omitempty"`

	// AgentID is nil when no assistant/agent authored or annotated this
	// entry. An empty string is never used as the "no selection" sentinel
	// for this field — see DESIGN.md's treatment of the source's `""`
	// convention, which applies to a different, UI-owned setting.
	AgentID *string `json:"agent_id,omitempty"`

	// CreatedAt/UpdatedAt are milliseconds since epoch. UpdatedAt must
	// increase monotonically on every local mutation (spec §3 invariant (b)).
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`

	SyncStatus      SyncStatus `json:"sync_status"`
	ServerUpdatedAt int64      `json:"server_updated_at"`
	LastSyncedAt    int64      `json:"last_synced_at"`
}

// TableName returns the name of the database table associated with Entry.
func (Entry) TableName() string {
	return "entries"
}

// SyncableFields is the subset of Entry that EntryCodec serializes into the
// encrypted envelope plaintext, in the fixed field order spec §4.3 requires
// for canonical JSON. Everything outside this subset (ID, SyncStatus,
// ServerUpdatedAt, LastSyncedAt) is local bookkeeping and never encrypted.
type SyncableFields struct {
	UUID        string    `json:"uuid"`
	Type        EntryType `json:"type"`
	Title       string    `json:"title"`
	Blocks      []Block   `json:"blocks"`
	Tags        []string  `json:"tags"`
	Attachments []string  `json:"attachments"`
	IsFavorite  bool      `json:"is_favorite"`
	IsPinned    bool      `json:"is_pinned"`
	ArchivedAt  *int64    `json:"archived_at,omitempty"`
	AgentID     *string   `json:"agent_id,omitempty"`
	CreatedAt   int64     `json:"created_at"`
	UpdatedAt   int64     `json:"updated_at"`
}

// FromEntry extracts the syncable subset of e in canonical field order.
func FromEntry(e Entry) SyncableFields {
	return SyncableFields{
		UUID:        e.UUID,
		Type:        e.Type,
		Title:       e.Title,
		Blocks:      e.Blocks,
		Tags:        e.Tags,
		Attachments: e.Attachments,
		IsFavorite:  e.IsFavorite,
		IsPinned:    e.IsPinned,
		ArchivedAt:  e.ArchivedAt,
		AgentID:     e.AgentID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ApplyTo writes every field of f onto e in place.
func (f SyncableFields) ApplyTo(e *Entry) {
	e.UUID = f.UUID
	e.Type = f.Type
	e.Title = f.Title
	e.Blocks = f.Blocks
	e.Tags = f.Tags
	e.Attachments = f.Attachments
	e.IsFavorite = f.IsFavorite
	e.IsPinned = f.IsPinned
	e.ArchivedAt = f.ArchivedAt
	e.AgentID = f.AgentID
	e.CreatedAt = f.CreatedAt
	e.UpdatedAt = f.UpdatedAt
}
