// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tokenmanager owns the client's access/refresh token lifecycle
// (spec §4.9): the access token lives in memory only, the refresh token in
// the platform secure store, refreshes are single-flighted, and a
// proactive refresh is scheduled ahead of expiry.
package tokenmanager

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/tokenmanager_mock.go -package=mock

// RefreshStore is the secure-store slice TokenManager uses for the refresh
// token. Implemented by the same platform keystore abstraction as
// keymanager.SecretStore (kept as a separate interface here to avoid an
// import-cycle-prone dependency between the two packages).
type RefreshStore interface {
	Put(key string, value []byte) error
	Get(key string) (value []byte, ok bool, err error)
	Delete(key string) error
}

// Refresher performs the network call to exchange a refresh token for a
// new access token. Supplied by the caller so TokenManager has no
// transport dependency of its own.
type Refresher func(ctx context.Context, refreshToken string) (accessToken string, expiresInSeconds int, err error)

// TokenManager is the sole implementor of the TokenManager contract (spec
// §4.9).
type TokenManager interface {
	// StoreAuthTokens records a freshly issued token pair. expiresIn
	// defaults to 900s if zero.
	StoreAuthTokens(access, refresh string, expiresIn int) error

	// GetValidAccessToken returns the in-memory access token if not
	// expired; otherwise performs a single-flighted refresh. On refresh
	// failure it clears all tokens and returns
	// [apperr.ErrSessionExpired] (Kind AuthFailure).
	GetValidAccessToken(ctx context.Context) (string, error)

	// Clear removes both tokens and cancels any scheduled proactive
	// refresh (used on logout and on refresh failure).
	Clear() error

	// SetRefresher installs the callback GetValidAccessToken uses to
	// perform a refresh; must be called once before first use.
	SetRefresher(r Refresher)
}
