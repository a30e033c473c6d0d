// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package wsgateway implements the server half of document synchronisation
// over WebSocket (spec §4.10): for each connected document it holds the
// authoritative in-memory [crdtdoc.Document], merges inbound updates,
// persists the merged state, and relays it to every other connected peer.
//
// Transport concerns (extracting the token/sessionId/name query
// parameters, verifying the bearer token, enforcing the rate limit, and
// performing the actual HTTP-to-WebSocket upgrade) live one layer up, in
// the ws handler package; Gateway takes an already-upgraded connection and
// an already-authenticated user ID.
package wsgateway

import (
	"context"

	"github.com/gorilla/websocket"
)

// Gateway joins an authenticated connection to the shared room for a
// document, relaying CRDT updates between it and every other connected
// peer until the connection closes.
type Gateway interface {
	// Join runs the full lifecycle of one peer's participation in
	// docUUID's sync room: ownership check, initial state push, and the
	// inbound read loop that merges, persists, and relays updates. It
	// blocks until a read from conn fails (normally because the peer
	// closed it), and always closes conn before returning.
	//
	// sessionID identifies this connection among the document's peers
	// (excluded from relay so a peer never receives its own update back).
	// displayName is recorded in the audit trail only.
	Join(ctx context.Context, conn *websocket.Conn, userID int64, sessionID, docUUID, displayName string) error
}
