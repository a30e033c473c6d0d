// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/inkwell-dev/sync-core/models"
)

const (
	FieldUUID         = "uuid"
	FieldEntryType    = "type"
	FieldTitle        = "title"
	FieldCreatedAt    = "created_at"
	FieldUpdatedAt    = "updated_at"
	FieldCiphertext   = "ciphertext"
	FieldNonce        = "nonce"
	FieldAuthTag      = "auth_tag"
	FieldVersion      = "version"
	FieldWrappedKey   = "wrapped_key"
)

var allowedEntryTypes = []models.EntryType{
	models.EntryTypeJournal,
	models.EntryTypeChat,
	models.EntryTypeCountdown,
}

func isValidEntryType(t models.EntryType) bool {
	for _, allowed := range allowedEntryTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// EntryValidator validates the domain's syncable shapes: the plaintext
// [models.SyncableFields]/[models.Entry] before encryption, and the
// [models.EncryptedEnvelopeV2] wire format after encryption. It checks
// structural well-formedness only; cryptographic verification of the AEAD
// tag happens in the cryptoprimitives layer, not here.
type EntryValidator struct {
}

func NewEntryValidator() Validator {
	return &EntryValidator{}
}

func (v *EntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncableFields:
		return v.validateSyncableFields(ctx, value, fields...)
	case *models.SyncableFields:
		return v.validateSyncableFields(ctx, *value, fields...)

	case models.Entry:
		return v.validateEntry(ctx, value, fields...)
	case *models.Entry:
		return v.validateEntry(ctx, *value, fields...)

	case models.EncryptedEnvelopeV2:
		return v.validateEnvelope(ctx, value, fields...)
	case *models.EncryptedEnvelopeV2:
		return v.validateEnvelope(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntryValidator) validateSyncableFields(ctx context.Context, f models.SyncableFields, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUUID, FieldEntryType, FieldTitle, FieldCreatedAt, FieldUpdatedAt}
	}

	for _, field := range fields {
		switch field {
		case FieldUUID:
			if f.UUID == "" {
				return ErrInvalidUUID
			}
		case FieldEntryType:
			if !isValidEntryType(f.Type) {
				return ErrInvalidEntryType
			}
		case FieldTitle:
			if f.Title == "" {
				return ErrEmptyTitle
			}
		case FieldCreatedAt:
			if f.CreatedAt <= 0 {
				return ErrInvalidTimestamp
			}
		case FieldUpdatedAt:
			if f.UpdatedAt <= 0 {
				return ErrInvalidTimestamp
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateEntry(ctx context.Context, e models.Entry, fields ...string) error {
	return v.validateSyncableFields(ctx, models.FromEntry(e), fields...)
}

func (v *EntryValidator) validateEnvelope(ctx context.Context, env models.EncryptedEnvelopeV2, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCiphertext, FieldNonce, FieldAuthTag, FieldVersion, FieldWrappedKey}
	}

	for _, field := range fields {
		switch field {
		case FieldCiphertext:
			if len(env.Ciphertext) == 0 {
				return ErrEmptyCiphertext
			}
		case FieldNonce:
			if len(env.Nonce) == 0 {
				return ErrEmptyNonce
			}
		case FieldAuthTag:
			if len(env.AuthTag) == 0 {
				return ErrEmptyAuthTag
			}
		case FieldVersion:
			if env.Version != models.EnvelopeVersion2 {
				return fmt.Errorf("%w: got %d, want %d", ErrInvalidEnvelopeVersion, env.Version, models.EnvelopeVersion2)
			}
		case FieldWrappedKey:
			if err := v.validateWrappedKey(env.WrappedKey); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateWrappedKey(wk models.WrappedKey) error {
	if wk.UserID <= 0 {
		return ErrInvalidWrappedKey
	}
	if len(wk.WrappedDEK) == 0 || len(wk.DEKNonce) == 0 || len(wk.DEKAuthTag) == 0 {
		return ErrInvalidWrappedKey
	}
	return nil
}
