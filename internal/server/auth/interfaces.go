// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth implements the server half of the per-user key hierarchy's
// entry point: account registration, login, Argon2id password verification,
// and JWT access/refresh token issuance (spec §2 AuthService, §6 REST auth
// contract).
package auth

import (
	"context"

	"github.com/inkwell-dev/sync-core/models"
)

// Service implements register/login/refresh/logout and access-token
// verification for the HTTP and WebSocket transports.
type Service interface {
	// Register creates a new account, optionally storing an initial wrapped
	// UEK record, and returns a fresh token pair.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)

	// Login verifies email/password and returns a fresh token pair, along
	// with the user's wrapped UEK record if one has been registered.
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)

	// Refresh exchanges a valid, unexpired, unrevoked refresh token for a
	// new access token.
	Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error)

	// Logout revokes a refresh token. Revoking an unknown or already
	// revoked token is not an error (best-effort, per spec §6).
	Logout(ctx context.Context, refreshToken string) error

	// VerifyAccessToken validates a bearer access token and returns the
	// owning user's ID.
	VerifyAccessToken(ctx context.Context, accessToken string) (int64, error)

	// Me returns the public projection of the authenticated user.
	Me(ctx context.Context, userID int64) (models.UserDTO, error)
}
