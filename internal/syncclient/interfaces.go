// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package syncclient manages one long-lived WebSocket session per open
// document against the server's WSGateway (spec §4.6). Each session
// mirrors a [crdtdoc.Document]'s updates bidirectionally over the socket
// and tracks its own status through a small state machine.
package syncclient

//go:generate mockgen -source=interfaces.go -destination=../mock/syncclient_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/inkwell-dev/sync-core/internal/crdtdoc"
)

// SessionStatus is a document session's position in the connection
// lifecycle (spec §4.6).
type SessionStatus int

const (
	StatusDisconnected SessionStatus = iota
	StatusConnecting
	StatusConnected
	StatusSyncing
	StatusSynced
)

func (s SessionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusSyncing:
		return "syncing"
	case StatusSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// DocHandle is the live handle to one document's WebSocket session,
// returned by [Client.ConnectDocument].
type DocHandle interface {
	// UUID is the document identifier this handle is bound to.
	UUID() string

	// Document is the CRDT instance mirrored over the socket. Callers
	// read and write it directly; SyncClient relays every local change
	// as an outgoing update frame and applies every incoming frame to it.
	Document() crdtdoc.Document

	// Status returns the current session status.
	Status() SessionStatus
}

// Client manages N concurrent per-document WebSocket sessions against one
// server (spec §4.6).
type Client interface {
	// ConnectDocument returns the existing session for uuid if one is
	// open, otherwise dials a new one. Fails fast with apperr.AuthFailure
	// if the auth-failure circuit breaker is open.
	ConnectDocument(ctx context.Context, uuid string) (DocHandle, error)

	// WaitForSync blocks until the initial server state has been applied
	// to uuid's document, or returns false after timeout elapses.
	WaitForSync(ctx context.Context, uuid string, timeout time.Duration) bool

	// GetDocument returns the live handle for uuid, or (nil, false) if no
	// session is open.
	GetDocument(uuid string) (DocHandle, bool)

	// DisconnectDocument closes uuid's session, if any.
	DisconnectDocument(uuid string)

	// DisconnectAll closes every open session.
	DisconnectAll()

	// ResetAuthFailures clears the auth-failure circuit breaker, called
	// on successful login.
	ResetAuthFailures()
}

// TokenSource supplies the bearer token a new WebSocket connection
// authenticates with. Implemented by tokenmanager.TokenManager.
type TokenSource interface {
	GetValidAccessToken(ctx context.Context) (string, error)
}
