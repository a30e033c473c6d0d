// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package ws is the thin WebSocket upgrade entrypoint for document
// synchronisation (spec §4.10). It owns every transport-level rejection
// that must happen before the connection is upgraded — missing
// parameters, an invalid access token, an exhausted rate-limit budget —
// and otherwise hands the upgraded connection straight to
// [wsgateway.Gateway].
package ws

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/server/auth"
	"github.com/inkwell-dev/sync-core/internal/server/ratelimiter"
	"github.com/inkwell-dev/sync-core/internal/server/wsgateway"
)

// Handler upgrades incoming HTTP requests to WebSocket connections and
// joins them to the document sync gateway.
//
// Handler is constructed once at application startup via [NewHandler] and
// mounted as the handler for the sync WebSocket route.
type Handler struct {
	auth    auth.Service
	limiter ratelimiter.Limiter
	gateway wsgateway.Gateway
	logger  *logger.Logger

	upgrader websocket.Upgrader
}

// NewHandler constructs a [Handler] wired to the given auth service, rate
// limiter, and sync gateway.
func NewHandler(authService auth.Service, limiter ratelimiter.Limiter, gateway wsgateway.Gateway, logger *logger.Logger) *Handler {
	logger.Debug().Msg("ws handler created")
	return &Handler{
		auth:    authService,
		limiter: limiter,
		gateway: gateway,
		logger:  logger,
		// Origin is not meaningful for this API: every sync client is a
		// native desktop/mobile process authenticating with a bearer
		// token in the query string, not a browser page subject to
		// same-origin policy.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// ServeHTTP implements spec §4.10's connection-establishment sequence up
// to and including the upgrade: extract query parameters, verify the
// bearer token, enforce the rate limit, then upgrade and hand off to
// [wsgateway.Gateway.Join], which validates the document name.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	q := r.URL.Query()
	token := q.Get("token")
	sessionID := q.Get("sessionId")
	displayName := q.Get("displayName")
	docUUID := q.Get("name")

	if token == "" || sessionID == "" || docUUID == "" {
		http.Error(w, "missing required query parameters", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	userID, err := h.auth.VerifyAccessToken(ctx, token)
	if err != nil {
		log.Err(err).Msg("rejecting websocket upgrade: invalid access token")
		http.Error(w, "invalid access token", http.StatusUnauthorized)
		return
	}

	if err := h.limiter.Allow(strconv.FormatInt(userID, 10)); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("rejecting websocket upgrade: rate limited")
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket upgrade failed")
		return
	}

	if err := h.gateway.Join(ctx, conn, userID, sessionID, docUUID, displayName); err != nil {
		switch {
		case errors.Is(err, apperr.ErrDocumentOwnedByOther), errors.Is(err, apperr.ErrInvalidUUID):
			log.Err(err).Str("uuid", docUUID).Int64("user_id", userID).Msg("document session rejected")
		default:
			log.Err(err).Str("uuid", docUUID).Int64("user_id", userID).Msg("document session ended with error")
		}
	}
}
