// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package wsgateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/crdtdoc"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/server/auditlog"
	"github.com/inkwell-dev/sync-core/internal/server/docstore"
	"github.com/inkwell-dev/sync-core/internal/server/metrics"
)

// hub is the sole implementor of [Gateway]. It keeps one [room] per
// currently-connected document, evicting a room once its last peer
// disconnects; a room's [crdtdoc.Document] is not kept warm in memory
// beyond that, so the next connection reloads it from docstore.
type hub struct {
	docs   docstore.Store
	audit  auditlog.Log
	logger *logger.Logger

	mu    sync.Mutex
	rooms map[string]*room
}

// NewGateway constructs a [Gateway] backed by the given document store and
// audit log.
func NewGateway(docs docstore.Store, audit auditlog.Log, logger *logger.Logger) Gateway {
	return &hub{
		docs:   docs,
		audit:  audit,
		logger: logger,
		rooms:  make(map[string]*room),
	}
}

// room is the shared state for every peer currently connected to one
// document. ownerID is resolved once, from the first peer to join after
// the room is created, and every subsequent joiner is checked against it.
type room struct {
	mu      sync.Mutex
	doc     crdtdoc.Document
	ownerID int64
	peers   map[string]*peer
}

// peer wraps one connected *websocket.Conn with a write mutex, since
// gorilla/websocket forbids concurrent writers on the same connection.
type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func (h *hub) Join(ctx context.Context, conn *websocket.Conn, userID int64, sessionID, docUUID, displayName string) (err error) {
	defer conn.Close()

	if _, parseErr := uuid.Parse(docUUID); parseErr != nil {
		return apperr.ErrInvalidUUID
	}

	r, firstJoiner, err := h.joinRoom(ctx, docUUID, userID)
	if err != nil {
		h.audit.Append(ctx, &userID, auditlog.EventDocumentAccessDenied, fmt.Sprintf("uuid=%s display=%s", docUUID, displayName))
		metrics.DocumentAccessDeniedTotal.Inc()
		return err
	}

	event := auditlog.EventDocumentAccessGranted
	if firstJoiner {
		event = auditlog.EventDocumentCreated
	}
	h.audit.Append(ctx, &userID, event, fmt.Sprintf("uuid=%s session=%s display=%s", docUUID, sessionID, displayName))

	p := &peer{conn: conn}
	r.mu.Lock()
	r.peers[sessionID] = p
	snapshot, encodeErr := r.doc.EncodeUpdate()
	r.mu.Unlock()

	metrics.ActiveWSConnections.Inc()
	defer func() {
		h.leaveRoom(docUUID, sessionID)
		metrics.ActiveWSConnections.Dec()
	}()

	if encodeErr != nil {
		return fmt.Errorf("encode initial snapshot: %w", encodeErr)
	}
	if err := p.send(snapshot); err != nil {
		return err
	}

	return h.readLoop(ctx, r, p, userID, sessionID, docUUID)
}

// joinRoom returns the shared room for docUUID, creating and hydrating it
// from docstore on first access, and verifies userID owns it. firstJoiner
// reports whether this call created the document (no prior owner on
// record).
func (h *hub) joinRoom(ctx context.Context, docUUID string, userID int64) (r *room, firstJoiner bool, err error) {
	h.mu.Lock()
	r, ok := h.rooms[docUUID]
	if !ok {
		r = &room{doc: crdtdoc.New(docUUID), peers: make(map[string]*peer)}
		h.rooms[docUUID] = r
	}
	h.mu.Unlock()

	r.mu.Lock()
	if r.ownerID != 0 {
		owned := r.ownerID == userID
		r.mu.Unlock()
		if !owned {
			return nil, false, apperr.ErrDocumentOwnedByOther
		}
		return r, false, nil
	}
	r.mu.Unlock()

	owner, found, err := h.docs.GetOwner(ctx, docUUID)
	if err != nil {
		h.evictIfEmpty(docUUID)
		return nil, false, fmt.Errorf("resolve document owner: %w", err)
	}
	if found && owner != userID {
		h.evictIfEmpty(docUUID)
		return nil, false, apperr.ErrDocumentOwnedByOther
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if found {
		state, _, stateFound, err := h.docs.GetByIDForUser(ctx, docUUID, userID)
		if err != nil {
			return nil, false, fmt.Errorf("load document state: %w", err)
		}
		if stateFound {
			if _, err := r.doc.ApplyUpdate(state); err != nil {
				h.logger.Err(err).Str("uuid", docUUID).Msg("discarding malformed persisted document state")
			}
		}
	}

	r.ownerID = userID
	return r, !found, nil
}

// evictIfEmpty removes docUUID's room if it still has no connected peers,
// cleaning up a room created by a joiner who was then denied access.
func (h *hub) evictIfEmpty(docUUID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[docUUID]; ok {
		r.mu.Lock()
		empty := len(r.peers) == 0
		r.mu.Unlock()
		if empty {
			delete(h.rooms, docUUID)
		}
	}
}

func (h *hub) leaveRoom(docUUID, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[docUUID]
	if !ok {
		return
	}

	r.mu.Lock()
	delete(r.peers, sessionID)
	empty := len(r.peers) == 0
	r.mu.Unlock()

	if empty {
		delete(h.rooms, docUUID)
	}
}

// readLoop pumps inbound frames from one peer: merge into the shared
// document, persist the merged state, and relay it to every other
// connected peer. Mirrors syncclient's own frame handling — every frame,
// first or subsequent, is a full snapshot; LWW merge makes re-applying one
// idempotent.
func (h *hub) readLoop(ctx context.Context, r *room, self *peer, userID int64, sessionID, docUUID string) error {
	for {
		_, data, err := self.conn.ReadMessage()
		if err != nil {
			return nil
		}

		r.mu.Lock()
		changed, applyErr := r.doc.ApplyUpdate(data)
		if applyErr != nil {
			r.mu.Unlock()
			h.logger.Err(applyErr).Str("uuid", docUUID).Msg("dropping malformed update frame")
			continue
		}
		if !changed {
			r.mu.Unlock()
			continue
		}
		merged, encodeErr := r.doc.EncodeUpdate()
		peers := make([]*peer, 0, len(r.peers))
		for sid, p := range r.peers {
			if sid == sessionID {
				continue
			}
			peers = append(peers, p)
		}
		r.mu.Unlock()

		if encodeErr != nil {
			h.logger.Err(encodeErr).Str("uuid", docUUID).Msg("encode merged document state")
			continue
		}

		if err := h.docs.Upsert(ctx, docUUID, userID, merged, sessionID); err != nil {
			h.logger.Err(err).Str("uuid", docUUID).Msg("persist merged document state")
		}

		for _, p := range peers {
			if err := p.send(merged); err == nil {
				metrics.WSMessagesRelayedTotal.Inc()
			}
		}
	}
}
