// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package entrycodec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/cryptoprimitives"
	"github.com/inkwell-dev/sync-core/models"
)

type codec struct {
	crypto cryptoprimitives.Primitives
}

// New constructs a [Codec] backed by crypto.
func New(crypto cryptoprimitives.Primitives) Codec {
	return &codec{crypto: crypto}
}

func (c *codec) EncryptEntry(entry models.Entry, ownerUserID int64, uek []byte) (models.EncryptedEnvelopeV2, error) {
	plaintext, err := json.Marshal(models.FromEntry(entry))
	if err != nil {
		return models.EncryptedEnvelopeV2{}, fmt.Errorf("marshal syncable fields: %w", err)
	}

	dek, err := c.crypto.GenerateDEK()
	if err != nil {
		return models.EncryptedEnvelopeV2{}, fmt.Errorf("generate dek: %w", err)
	}

	ciphertext, nonce, tag, err := c.crypto.EncryptContent(plaintext, dek)
	if err != nil {
		return models.EncryptedEnvelopeV2{}, fmt.Errorf("encrypt content: %w", err)
	}

	wrappedDEK, dekNonce, dekTag, err := c.crypto.WrapDEK(dek, uek)
	if err != nil {
		return models.EncryptedEnvelopeV2{}, fmt.Errorf("wrap dek: %w", err)
	}

	return models.EncryptedEnvelopeV2{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(tag),
		WrappedKey: models.WrappedKey{
			UserID:     ownerUserID,
			WrappedDEK: base64.StdEncoding.EncodeToString(wrappedDEK),
			DEKNonce:   base64.StdEncoding.EncodeToString(dekNonce),
			DEKAuthTag: base64.StdEncoding.EncodeToString(dekTag),
		},
		Version: models.EnvelopeVersion2,
	}, nil
}

func (c *codec) DecryptEntry(envelope models.EncryptedEnvelopeV2, currentUserID int64, uek []byte) (models.SyncableFields, error) {
	if envelope.WrappedKey.UserID != currentUserID {
		return models.SyncableFields{}, apperr.New(apperr.AccessDenied, "entrycodec.DecryptEntry", apperr.ErrWrongRecipient)
	}

	wrappedDEK, err := base64.StdEncoding.DecodeString(envelope.WrappedKey.WrappedDEK)
	if err != nil {
		return models.SyncableFields{}, apperr.New(apperr.Corruption, "entrycodec.DecryptEntry", fmt.Errorf("decode wrapped dek: %w", err))
	}
	dekNonce, err := base64.StdEncoding.DecodeString(envelope.WrappedKey.DEKNonce)
	if err != nil {
		return models.SyncableFields{}, apperr.New(apperr.Corruption, "entrycodec.DecryptEntry", fmt.Errorf("decode dek nonce: %w", err))
	}
	dekTag, err := base64.StdEncoding.DecodeString(envelope.WrappedKey.DEKAuthTag)
	if err != nil {
		return models.SyncableFields{}, apperr.New(apperr.Corruption, "entrycodec.DecryptEntry", fmt.Errorf("decode dek auth tag: %w", err))
	}

	dek, err := c.crypto.UnwrapDEK(wrappedDEK, dekNonce, dekTag, uek)
	if err != nil {
		return models.SyncableFields{}, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return models.SyncableFields{}, apperr.New(apperr.Corruption, "entrycodec.DecryptEntry", fmt.Errorf("decode ciphertext: %w", err))
	}
	nonce, err := base64.StdEncoding.DecodeString(envelope.Nonce)
	if err != nil {
		return models.SyncableFields{}, apperr.New(apperr.Corruption, "entrycodec.DecryptEntry", fmt.Errorf("decode nonce: %w", err))
	}
	tag, err := base64.StdEncoding.DecodeString(envelope.AuthTag)
	if err != nil {
		return models.SyncableFields{}, apperr.New(apperr.Corruption, "entrycodec.DecryptEntry", fmt.Errorf("decode auth tag: %w", err))
	}

	plaintext, err := c.crypto.DecryptContent(ciphertext, nonce, tag, dek)
	if err != nil {
		return models.SyncableFields{}, err
	}

	var fields models.SyncableFields
	if err := json.Unmarshal(plaintext, &fields); err != nil {
		return models.SyncableFields{}, apperr.New(apperr.Corruption, "entrycodec.DecryptEntry", fmt.Errorf("unmarshal syncable fields: %w", err))
	}

	return fields, nil
}
