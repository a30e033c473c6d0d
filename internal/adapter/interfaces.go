// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the journal sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// runtime (sync manager, token manager) from the underlying protocol. The
// package ships a single implementation, over HTTP/REST
// ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/inkwell-dev/sync-core/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the journal
// sync server (spec §6). Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
//
// FetchManifest satisfies [github.com/inkwell-dev/sync-core/internal/syncmanager.ManifestFetcher],
// letting a ServerAdapter be wired directly into a sync manager.
type ServerAdapter interface {
	// SetToken stores the bearer access token attached to all subsequent
	// authenticated requests. It should be called immediately after a
	// successful Register, Login, or Refresh.
	SetToken(token string)

	// Token returns the bearer access token currently stored in the
	// adapter, or an empty string if none has been set yet.
	Token() string

	// Register sends a registration request to the server. On success it
	// stores the returned access token via SetToken and returns the full
	// auth response, including the issued refresh token and, when the
	// server echoes a wrapped UEK record, the UEK payload. Returns an
	// error wrapping [ErrConflict] if the email is already registered.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)

	// Login authenticates the user with the server using an email and
	// password. On success it stores the returned access token via
	// SetToken and returns the full auth response. Returns an error
	// wrapping [ErrUnauthorized] on invalid credentials.
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)

	// Refresh exchanges refreshToken for a new access token. On success it
	// stores the new access token via SetToken. It is shaped to be usable
	// directly as a
	// [github.com/inkwell-dev/sync-core/internal/tokenmanager.Refresher]
	// once wrapped to report an expiry.
	Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error)

	// Logout revokes refreshToken on the server. The server-side contract
	// treats an already-revoked or unknown token as a no-op. Logout returns
	// an error on a transport failure or a non-2xx response.
	Logout(ctx context.Context, refreshToken string) error

	// Me fetches the profile of the user currently identified by the
	// stored bearer token. Requires a valid access token to be set.
	Me(ctx context.Context) (models.UserDTO, error)

	// FetchManifest retrieves the {uuid, updatedAt} manifest of every
	// document owned by the authenticated user, used by the sync manager
	// to diff server vs. local state without downloading full CRDT
	// payloads. Requires a valid access token to be set.
	FetchManifest(ctx context.Context) ([]models.ManifestEntry, error)
}
