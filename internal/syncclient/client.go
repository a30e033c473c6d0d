// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncclient

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/crdtdoc"
)

const (
	authFailureThreshold = 3
	connFailureThreshold = 5
)

// client is the sole implementor of [Client].
type client struct {
	serverURL   string
	displayName string
	tokens      TokenSource
	dialer      *websocket.Dialer

	mu       sync.Mutex
	sessions map[string]*session

	authFailures int32
	connFailures int32
	disabled     int32 // atomic bool
}

// New constructs a [Client] dialing against serverURL (an http(s):// or
// ws(s):// base URL) using tokens for bearer authentication. displayName
// is advertised to the server for presence/audit purposes.
func New(serverURL, displayName string, tokens TokenSource) Client {
	return &client{
		serverURL:   serverURL,
		displayName: displayName,
		tokens:      tokens,
		dialer:      websocket.DefaultDialer,
		sessions:    make(map[string]*session),
	}
}

// toWebsocketURL applies the spec's http(s)->ws(s) scheme transform and
// strips a trailing slash.
func toWebsocketURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
		// already a websocket URL
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	return u.String(), nil
}

func (c *client) ResetAuthFailures() {
	atomic.StoreInt32(&c.authFailures, 0)
	atomic.StoreInt32(&c.disabled, 0)
}

func (c *client) ConnectDocument(ctx context.Context, docUUID string) (DocHandle, error) {
	if atomic.LoadInt32(&c.disabled) != 0 {
		return nil, apperr.New(apperr.AuthFailure, "syncclient.ConnectDocument", fmt.Errorf("sync disabled after repeated auth failures"))
	}

	c.mu.Lock()
	if existing, ok := c.sessions[docUUID]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.mu.Unlock()

	token, err := c.tokens.GetValidAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	wsBase, err := toWebsocketURL(c.serverURL)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("token", token)
	q.Set("sessionId", uuid.NewString())
	q.Set("displayName", c.displayName)
	q.Set("name", docUUID)
	dialURL := wsBase + "/?" + q.Encode()

	s := &session{
		uuid:   docUUID,
		doc:    crdtdoc.New(docUUID),
		client: c,
		synced: make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.setStatus(StatusConnecting)

	conn, resp, err := c.dialer.DialContext(ctx, dialURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 401 {
			c.reportAuthFailure()
			return nil, apperr.New(apperr.AuthFailure, "syncclient.ConnectDocument", err)
		}
		c.reportConnFailure()
		return nil, apperr.New(apperr.Transient, "syncclient.ConnectDocument", err)
	}
	s.conn = conn
	s.setStatus(StatusConnected)

	c.mu.Lock()
	c.sessions[docUUID] = s
	c.mu.Unlock()

	s.unsubscribeLocal = s.doc.Observe(s.onLocalChange)
	go s.readLoop()

	return s, nil
}

func (c *client) reportAuthFailure() {
	if atomic.AddInt32(&c.authFailures, 1) >= authFailureThreshold {
		atomic.StoreInt32(&c.disabled, 1)
	}
}

func (c *client) reportConnFailure() {
	if atomic.AddInt32(&c.connFailures, 1) >= connFailureThreshold {
		c.DisconnectAll()
	}
}

func (c *client) reportConnSuccess() {
	atomic.StoreInt32(&c.connFailures, 0)
}

func (c *client) WaitForSync(ctx context.Context, docUUID string, timeout time.Duration) bool {
	c.mu.Lock()
	s, ok := c.sessions[docUUID]
	c.mu.Unlock()
	if !ok {
		return false
	}

	select {
	case <-s.synced:
		return true
	case <-time.After(timeout):
		return false
	case <-ctx.Done():
		return false
	}
}

func (c *client) GetDocument(docUUID string) (DocHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[docUUID]
	return s, ok
}

func (c *client) DisconnectDocument(docUUID string) {
	c.mu.Lock()
	s, ok := c.sessions[docUUID]
	if ok {
		delete(c.sessions, docUUID)
	}
	c.mu.Unlock()
	if ok {
		s.close()
	}
}

func (c *client) DisconnectAll() {
	c.mu.Lock()
	sessions := make([]*session, 0, len(c.sessions))
	for uuid, s := range c.sessions {
		sessions = append(sessions, s)
		delete(c.sessions, uuid)
	}
	c.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}

// session is the per-document implementation of [DocHandle].
type session struct {
	uuid   string
	client *client
	conn   *websocket.Conn
	doc    crdtdoc.Document

	statusMu sync.RWMutex
	status   SessionStatus

	synced     chan struct{}
	syncedOnce sync.Once

	done      chan struct{}
	closeOnce sync.Once

	writeMu          sync.Mutex
	lastSent         []byte
	unsubscribeLocal func()
}

func (s *session) UUID() string              { return s.uuid }
func (s *session) Document() crdtdoc.Document { return s.doc }

func (s *session) Status() SessionStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *session) setStatus(st SessionStatus) {
	s.statusMu.Lock()
	s.status = st
	s.statusMu.Unlock()
}

func (s *session) markSynced() {
	s.setStatus(StatusSynced)
	s.syncedOnce.Do(func() { close(s.synced) })
}

// readLoop pumps incoming frames: the first frame is the full-state
// response, every subsequent frame is an incremental update. Both are
// encoded identically (crdtdoc.Document.EncodeUpdate's full snapshot) —
// the document's LWW merge makes re-applying a full snapshot as an
// "incremental" update safe, so the distinction is purely about when
// WaitForSync unblocks, not about wire format.
func (s *session) readLoop() {
	defer s.close()

	first := true
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				// Closed deliberately (DisconnectDocument/DisconnectAll); not
				// a connection failure.
			default:
				s.client.reportConnFailure()
			}
			return
		}

		if first {
			s.setStatus(StatusSyncing)
		}

		if _, err := s.doc.ApplyUpdate(data); err != nil {
			// Malformed frame from the server; drop and keep the session
			// alive rather than tearing it down over one bad frame.
			continue
		}

		if first {
			s.markSynced()
			s.client.reportConnSuccess()
			first = false
		}
	}
}

// onLocalChange is installed as the document's observer and mirrors every
// coalesced local change out over the socket.
func (s *session) onLocalChange(_ crdtdoc.StateSnapshot) {
	update, err := s.doc.EncodeUpdate()
	if err != nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if bytes.Equal(update, s.lastSent) {
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, update); err != nil {
		return
	}
	s.lastSent = update
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.unsubscribeLocal != nil {
			s.unsubscribeLocal()
		}
		if s.conn != nil {
			_ = s.conn.Close()
		}
		s.setStatus(StatusDisconnected)
	})
}
