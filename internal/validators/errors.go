// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	// ErrUnsupportedType is returned when a value of an unsupported type
	// is passed to a validator that cannot handle it.
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrUnknownField is returned when a field name provided for validation
	// does not match any known or expected field.
	ErrUnknownField = errors.New("unknown field for validation")

	// ErrInvalidUUID is returned when an entry's UUID is present but
	// empty, or required and missing.
	ErrInvalidUUID = errors.New("invalid uuid")

	// ErrInvalidEntryType is returned when an entry's Type is not one of
	// the recognized [models.EntryType] values.
	ErrInvalidEntryType = errors.New("invalid entry type")

	// ErrEmptyTitle is returned when an entry's Title is required but
	// empty.
	ErrEmptyTitle = errors.New("title is required")

	// ErrInvalidTimestamp is returned when CreatedAt/UpdatedAt is zero or
	// negative.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrEmptyCiphertext is returned when an envelope's Ciphertext is
	// empty.
	ErrEmptyCiphertext = errors.New("ciphertext is required")

	// ErrEmptyNonce is returned when an envelope's Nonce is empty.
	ErrEmptyNonce = errors.New("nonce is required")

	// ErrEmptyAuthTag is returned when an envelope's AuthTag is empty.
	ErrEmptyAuthTag = errors.New("auth tag is required")

	// ErrInvalidEnvelopeVersion is returned when an envelope's Version
	// does not match [models.EnvelopeVersion2].
	ErrInvalidEnvelopeVersion = errors.New("unsupported envelope version")

	// ErrInvalidWrappedKey is returned when an envelope's WrappedKey is
	// missing its UserID or any of its AEAD fields.
	ErrInvalidWrappedKey = errors.New("invalid wrapped key")
)
