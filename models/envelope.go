// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// WrappedKey carries a per-entry DEK wrapped with the owning user's UEK.
// user_id lets EntryCodec.decrypt_entry reject envelopes wrapped for a
// different account (spec §4.3 AccessDenied check) before it ever attempts
// to unwrap the key.
type WrappedKey struct {
	UserID     int64  `json:"user_id"`
	WrappedDEK string `json:"wrapped_dek"`
	DEKNonce   string `json:"dek_nonce"`
	DEKAuthTag string `json:"dek_auth_tag"`
}

// EncryptedEnvelopeV2 is the unit of sync: the ciphertext of one Entry's
// SyncableFields plus everything needed to unwrap and verify it. All byte
// fields are standard (padded) base64.
type EncryptedEnvelopeV2 struct {
	Ciphertext string     `json:"ciphertext"`
	Nonce      string     `json:"nonce"`
	AuthTag    string     `json:"auth_tag"`
	WrappedKey WrappedKey `json:"wrapped_key"`
	Version    int        `json:"version"`
}

// EnvelopeVersion2 is the only envelope version this implementation reads
// or writes.
const EnvelopeVersion2 = 2
