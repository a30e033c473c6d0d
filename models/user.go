// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents an account entity used for authentication and the
// per-user encryption-key hierarchy.
//
// Sensitive fields must never be exposed outside trusted boundaries:
// AuthHash is the Argon2id digest of the master password, never the
// password itself.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"-"`

	// Email is the unique login identifier.
	Email string `json:"email"`

	// Password carries the plaintext master password only on the wire,
	// for register/login requests; it is never persisted.
	Password string `json:"password,omitempty"`

	// AuthHash is the Argon2id digest of Password, computed server-side.
	// Never transmitted back to a client.
	AuthHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table associated with User.
func (u User) TableName() string {
	return "users"
}
