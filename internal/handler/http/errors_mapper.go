// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/inkwell-dev/sync-core/internal/server/auth"
	"github.com/inkwell-dev/sync-core/internal/store"
	"github.com/inkwell-dev/sync-core/internal/utils"
	"github.com/inkwell-dev/sync-core/models"
)

// authErrorStatusMap maps the auth service's sentinel errors onto the
// canonical codes of spec §6's auth error contract.
var authErrorStatusMap = map[error]struct {
	code   models.AuthErrorCode
	status int
}{
	auth.ErrInvalidEmail:        {code: models.ErrCodeInvalidEmail, status: http.StatusBadRequest},
	auth.ErrEmailExists:         {code: models.ErrCodeEmailExists, status: http.StatusConflict},
	auth.ErrWeakPassword:        {code: models.ErrCodeWeakPassword, status: http.StatusBadRequest},
	auth.ErrInvalidCredentials:  {code: models.ErrCodeInvalidCredentials, status: http.StatusUnauthorized},
	auth.ErrInvalidRefreshToken: {code: models.ErrCodeInvalidRefreshToken, status: http.StatusUnauthorized},
	auth.ErrInvalidAccessToken:  {code: models.ErrCodeInvalidAccessToken, status: http.StatusUnauthorized},
	store.ErrNoUserWasFound:     {code: models.ErrCodeUserNotFound, status: http.StatusNotFound},
}

// writeAuthError writes err as spec §6's `{error, code}` JSON body, mapping
// known auth sentinels onto their canonical code and status. An
// unrecognised error falls back to a generic 500 with no code, so callers
// never see a code the spec does not define.
func writeAuthError(w http.ResponseWriter, err error) {
	for target, resp := range authErrorStatusMap {
		if errors.Is(err, target) {
			utils.WriteJSON(w, models.AuthErrorResponse{Error: err.Error(), Code: resp.code}, resp.status)
			return
		}
	}
	utils.WriteJSON(w, models.AuthErrorResponse{Error: "internal server error"}, http.StatusInternalServerError)
}
