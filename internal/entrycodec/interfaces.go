// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package entrycodec turns an [models.Entry] into an
// [models.EncryptedEnvelopeV2] and back. It is the only place that ever
// serializes entry content to plaintext JSON or tears down an envelope's
// AEAD.
package entrycodec

import "github.com/inkwell-dev/sync-core/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/entrycodec_mock.go -package=mock

// Codec is the sole implementor of the EntryCodec contract (spec §4.3).
type Codec interface {
	// EncryptEntry serializes entry's syncable subset as canonical JSON,
	// generates a fresh DEK, encrypts the JSON, wraps the DEK under uek,
	// and returns the resulting envelope addressed to ownerUserID.
	EncryptEntry(entry models.Entry, ownerUserID int64, uek []byte) (models.EncryptedEnvelopeV2, error)

	// DecryptEntry verifies envelope.WrappedKey.UserID == currentUserID
	// (returning [apperr.AccessDenied] otherwise), unwraps the DEK under
	// uek, decrypts the ciphertext, and parses the result into the
	// mutable subset of Entry.
	DecryptEntry(envelope models.EncryptedEnvelopeV2, currentUserID int64, uek []byte) (models.SyncableFields, error)
}
