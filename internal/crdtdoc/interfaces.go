// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crdtdoc implements the state-based CRDT document primitive that
// backs every synced entry (spec §3, §4.4): a last-writer-wins register map
// ("metadata") plus a sequence of opaque blocks held in one last-writer-wins
// register that is replaced as a whole, merged
// causally across replicas with no central coordinator.
//
// There is no off-the-shelf CRDT library in this codebase's dependency
// set; Document is hand-built in the last-writer-wins style the rest of
// this module's CRDT-adjacent code already favors (timestamp-keyed
// registers with a tombstone bit, replica-id tie-breaks on equal
// timestamps).
package crdtdoc

// Document is one CRDT-replicated unit of sync, keyed by its UUID.
type Document interface {
	// UUID returns the stable identifier of this document.
	UUID() string

	// SetField sets key in the metadata register to value at logical time
	// updatedAt, replicated from replicaID. Last-writer-wins: a lower or
	// equal updatedAt than the current register value (with replicaID as
	// tie-break) is a no-op.
	SetField(key string, value any, updatedAt int64, replicaID string)

	// GetField returns the current value of key and whether it is set.
	GetField(key string) (any, bool)

	// SetBlocks replaces the ordered block sequence at logical time
	// updatedAt. Last-writer-wins at the whole-sequence granularity,
	// matching the spec's treatment of blocks as sync-opaque content.
	SetBlocks(blocks []BlockState, updatedAt int64, replicaID string)

	// Blocks returns the current block sequence.
	Blocks() []BlockState

	// MarkDeleted sets the tombstone bit at logical time updatedAt.
	MarkDeleted(updatedAt int64, replicaID string)

	// Deleted reports the current tombstone bit.
	Deleted() bool

	// UpdatedAt returns the highest logical time observed across all
	// registers and the tombstone.
	UpdatedAt() int64

	// Snapshot returns a compact, deterministic state snapshot usable for
	// a fresh replica to initialize from, or for persistence.
	Snapshot() StateSnapshot

	// ApplyUpdate merges a binary update message (produced by
	// [Document.EncodeUpdate] on any replica, including this one) into the
	// document. Returns true if the merge changed observable state.
	ApplyUpdate(update []byte) (bool, error)

	// EncodeUpdate serializes the full current state as a binary update
	// message suitable for [Document.ApplyUpdate] on another replica.
	EncodeUpdate() ([]byte, error)

	// Observe registers callback to fire at most once per coalescing
	// window after any local or remote mutation that advances UpdatedAt
	// beyond what the observer has already surfaced. Returns an unsubscribe
	// function.
	Observe(callback func(StateSnapshot)) (unsubscribe func())
}

// BlockState is the CRDT-visible projection of a content block.
type BlockState struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content []byte `json:"content"`
}

// StateSnapshot is the compact, JSON-serializable projection of a Document
// at a point in time.
type StateSnapshot struct {
	UUID      string         `json:"uuid"`
	Metadata  map[string]any `json:"metadata"`
	Blocks    []BlockState   `json:"blocks"`
	Deleted   bool           `json:"deleted"`
	UpdatedAt int64          `json:"updated_at"`
}
