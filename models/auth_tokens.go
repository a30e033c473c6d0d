// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuthTokens is the pair issued on register/login/refresh, matching the
// REST contract of spec §6 (`accessToken`, `refreshToken`).
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	// ExpiresIn is the access token lifetime in seconds, so the client can
	// schedule its own proactive refresh without parsing the JWT.
	ExpiresIn int `json:"expiresIn"`
}

// RefreshToken is the server-side persisted record backing a refresh
// token, stored in the `refresh_tokens` table.
type RefreshToken struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"-"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
	CreatedAt time.Time `json:"-"`
	RevokedAt *time.Time `json:"-"`
}

// TableName returns the name of the database table associated with
// RefreshToken.
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
