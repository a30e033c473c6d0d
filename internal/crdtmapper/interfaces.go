// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crdtmapper bridges [models.EncryptedEnvelopeV2] and
// [crdtdoc.Document]: it is the only place that knows which CRDT metadata
// keys carry the envelope's encrypted fields versus the two timestamp keys
// the document keeps in cleartext (spec §4.4).
package crdtmapper

import (
	"github.com/inkwell-dev/sync-core/internal/crdtdoc"
	"github.com/inkwell-dev/sync-core/models"
)

// Metadata keys used on the underlying [crdtdoc.Document]. created_at and
// updated_at are deliberately unencrypted so that timestamp comparison
// (manifest reconciliation, conflict gating) never requires the UEK — the
// server already sees these timestamps by necessity.
const (
	FieldCiphertext   = "ciphertext"
	FieldNonce        = "nonce"
	FieldAuthTag      = "auth_tag"
	FieldWrappedDEK   = "wrapped_dek"
	FieldDEKNonce     = "dek_nonce"
	FieldDEKAuthTag   = "dek_auth_tag"
	FieldWrappedUser  = "wrapped_key_user_id"
	FieldEnvVersion   = "envelope_version"
	FieldCreatedAtRaw = "created_at"
	FieldUpdatedAtRaw = "updated_at"
)

// DecodedDocument is the plaintext-timestamp projection returned by
// [Mapper.CRDTToEncrypted].
type DecodedDocument struct {
	Envelope  models.EncryptedEnvelopeV2
	CreatedAt int64
	UpdatedAt int64
	Deleted   bool
}

// Mapper is the sole implementor of the CRDTMapper contract (spec §4.4).
type Mapper interface {
	// EntryToCRDTEncrypted writes envelope's fields into doc's metadata
	// register and clears the tombstone, all at logical time updatedAt
	// from replicaID. createdAt is written once and is not expected to
	// change across calls, but SetField's LWW rule makes repeated writes
	// safe regardless.
	EntryToCRDTEncrypted(doc crdtdoc.Document, envelope models.EncryptedEnvelopeV2, createdAt, updatedAt int64, replicaID string)

	// CRDTToEncrypted reassembles the envelope and timestamps from doc's
	// current metadata. ok is false if doc has never been populated (no
	// ciphertext field present).
	CRDTToEncrypted(doc crdtdoc.Document) (decoded DecodedDocument, ok bool)

	// MarkDeleted sets the tombstone and bumps updated_at to updatedAt.
	MarkDeleted(doc crdtdoc.Document, updatedAt int64, replicaID string)

	// Observe registers callback, invoked with the reassembled
	// [DecodedDocument] whenever doc's underlying observer fires (spec
	// §4.4: at most once per coalesced burst, for both local and
	// remote-origin updates).
	Observe(doc crdtdoc.Document, callback func(DecodedDocument)) (unsubscribe func())
}
