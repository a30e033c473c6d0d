// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/server/assetstore"
	"github.com/inkwell-dev/sync-core/internal/utils"
	"github.com/inkwell-dev/sync-core/models"
)

// maxUploadSize bounds the in-memory portion of a multipart asset upload
// (spec §6 gives no explicit cap; this keeps a hostile Content-Length from
// forcing an unbounded buffer before streaming to disk).
const maxUploadSize = 64 << 20 // 64 MiB

// uploadAsset handles POST /api/assets/upload (spec §6): a multipart form
// carrying the attachment bytes plus its metadata and, for encrypted
// attachments, the wrapped-DEK envelope.
func (h *Handler) uploadAsset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Err(err).Msg("failed to parse multipart asset upload")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Msg("missing file part in asset upload")
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	form := r.MultipartForm.Value
	wrappedDEK := formValue(form, "wrappedDek")

	meta := assetstore.Asset{
		EntryUUID:      formValue(form, "entryId"),
		UserID:         userID,
		Filename:       firstNonEmpty(formValue(form, "filename"), header.Filename),
		MimeType:       formValue(form, "mimeType"),
		IsEncrypted:    wrappedDEK != "",
		WrappedDEK:     wrappedDEK,
		DEKNonce:       formValue(form, "dekNonce"),
		DEKAuthTag:     formValue(form, "dekAuthTag"),
		ContentNonce:   formValue(form, "contentNonce"),
		ContentAuthTag: formValue(form, "contentAuthTag"),
	}

	saved, err := h.assets.Save(r.Context(), meta, file)
	if err != nil {
		log.Err(err).Msg("failed to save uploaded asset")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, models.AssetUploadResponse{
		ID:        saved.ID,
		URL:       h.assetURL(saved.ID),
		Encrypted: saved.IsEncrypted,
	}, http.StatusOK)
}

// downloadAsset handles GET /api/assets/:id (spec §6): streams the raw
// attachment bytes.
func (h *Handler) downloadAsset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	content, meta, found, err := h.assets.Open(r.Context(), id, userID)
	if err != nil {
		log.Err(err).Str("asset_id", id).Msg("failed to open asset")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", meta.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.SizeBytes, 10))
	if _, err := io.Copy(w, content); err != nil {
		log.Err(err).Str("asset_id", id).Msg("failed to stream asset bytes")
	}
}

// assetMetadata handles GET /api/assets/:id/metadata (spec §6).
func (h *Handler) assetMetadata(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	meta, found, err := h.assets.GetMetadata(r.Context(), id, userID)
	if err != nil {
		log.Err(err).Str("asset_id", id).Msg("failed to load asset metadata")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, assetstore.ToMetadataDTO(meta, h.assetURL), http.StatusOK)
}

// deleteAsset handles DELETE /api/assets/:id (spec §6).
func (h *Handler) deleteAsset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	deleted, err := h.assets.Delete(r.Context(), id, userID)
	if err != nil {
		log.Err(err).Str("asset_id", id).Msg("failed to delete asset")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) assetURL(id string) string {
	return h.assetBaseURL + "/" + id
}

func formValue(form map[string][]string, key string) string {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return ""
	}
	return values[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

