// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/utils"
	"github.com/inkwell-dev/sync-core/models"
)

// manifest handles GET /api/documents/manifest (spec §6, §4.11): returns a
// cheap {uuid, updatedAt} pair for every document owned by the
// authenticated user, used by client-side reconciliation to decide what
// to fetch or push without downloading full CRDT state.
func (h *Handler) manifest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	entries, err := h.docs.Manifest(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to load document manifest")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []models.ManifestEntry{}
	}
	utils.WriteJSON(w, models.ManifestResponse{Documents: entries}, http.StatusOK)
}
