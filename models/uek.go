// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// UEKServerRecord is the opaque, server-held half of the UEK record
// (table `user_uek`). The server never sees the unwrapped key; it only
// stores and returns this blob.
type UEKServerRecord struct {
	UserID     int64  `json:"-"`
	WrappedUEK string `json:"wrappedUek"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	AuthTag    string `json:"authTag"`
	Version    int    `json:"version"`
}

// TableName returns the name of the database table associated with
// UEKServerRecord.
func (UEKServerRecord) TableName() string {
	return "user_uek"
}

// UEKClientRecord is the client secure-store half of the UEK record: the
// unwrapped key, plaintext, which must never leave the device.
type UEKClientRecord struct {
	UEK     []byte `json:"-"`
	Version int    `json:"-"`
}
