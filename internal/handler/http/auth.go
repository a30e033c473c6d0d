package http

import (
	"encoding/json"
	"net/http"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/utils"
	"github.com/inkwell-dev/sync-core/models"
)

// register handles POST /api/auth/register (spec §6): creates a new
// account, optionally storing an initial wrapped UEK record, and returns a
// fresh token pair.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("registration failed")
		writeAuthError(w, err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// login handles POST /api/auth/login (spec §6): verifies email/password
// and returns a fresh token pair, plus the user's wrapped UEK record if
// one exists.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("login failed")
		writeAuthError(w, err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// refresh handles POST /api/auth/refresh (spec §6): exchanges a valid
// refresh token for a new access token.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		log.Err(err).Msg("refresh failed")
		writeAuthError(w, err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// logout handles POST /api/auth/logout (spec §6): best-effort revocation
// of a refresh token. Always returns 204, even for an unknown token.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		log.Err(err).Msg("logout encountered an error; proceeding anyway")
	}

	w.WriteHeader(http.StatusNoContent)
}

// me handles GET /api/auth/me (spec §6): returns the public projection of
// the authenticated user.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to load authenticated user")
		writeAuthError(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		User models.UserDTO `json:"user"`
	}{User: user}, http.StatusOK)
}

// status handles GET /api/status (spec §6): an unauthenticated liveness
// probe.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.StatusResponse{OK: true, Service: "sync-core"}, http.StatusOK)
}
