// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/inkwell-dev/sync-core/internal/config"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/utils"
	"github.com/inkwell-dev/sync-core/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	hashKey string
	token   string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress, configures the underlying HTTP client with the
// resolved base URL and request timeout, and initialises the shared HMAC
// hasher pool used elsewhere by the client for local integrity checks.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	utils.InitHasherPool(appCfg.HashKey)

	return &httpServerAdapter{client: client, hashKey: appCfg.HashKey, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	return h.token
}

// Register implements [ServerAdapter]. It POSTs req to
// POST /api/auth/register. On success the issued access token is stored via
// SetToken and the decoded auth response is returned. Returns an error
// wrapping [ErrConflict] if the email is already registered.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var auth models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&auth).
		Post("/api/auth/register")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}

	h.SetToken(auth.AccessToken)
	return auth, nil
}

// Login implements [ServerAdapter]. It POSTs req to POST /api/auth/login.
// On success the issued access token is stored via SetToken. Returns an
// error wrapping [ErrUnauthorized] on invalid credentials.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var auth models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&auth).
		Post("/api/auth/login")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}

	h.SetToken(auth.AccessToken)
	return auth, nil
}

// Refresh implements [ServerAdapter]. It POSTs refreshToken to
// POST /api/auth/refresh and stores the newly issued access token via
// SetToken. Returns an error wrapping [ErrUnauthorized] if refreshToken has
// expired or been revoked.
func (h *httpServerAdapter) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	var refreshed models.RefreshResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		SetResult(&refreshed).
		Post("/api/auth/refresh")
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RefreshResponse{}, err
	}

	h.SetToken(refreshed.AccessToken)
	return refreshed, nil
}

// Logout implements [ServerAdapter]. It POSTs refreshToken to
// POST /api/auth/logout. The server treats an unknown or already-revoked
// token as a no-op. A transport failure is returned wrapped; a non-2xx
// response is returned as the sentinel chosen by mapHTTPError.
func (h *httpServerAdapter) Logout(ctx context.Context, refreshToken string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LogoutRequest{RefreshToken: refreshToken}).
		Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

// Me implements [ServerAdapter]. It GETs GET /api/auth/me using the stored
// bearer token. Requires a valid access token. Returns an error wrapping
// [ErrUnauthorized] if the token has expired.
func (h *httpServerAdapter) Me(ctx context.Context) (models.UserDTO, error) {
	var body struct {
		User models.UserDTO `json:"user"`
	}

	resp, err := h.authedRequest(ctx).
		SetResult(&body).
		Get("/api/auth/me")
	if err != nil {
		return models.UserDTO{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UserDTO{}, err
	}

	return body.User, nil
}

// FetchManifest implements [ServerAdapter] and
// [github.com/inkwell-dev/sync-core/internal/syncmanager.ManifestFetcher].
// It GETs GET /api/documents/manifest using the stored bearer token.
// Requires a valid access token.
func (h *httpServerAdapter) FetchManifest(ctx context.Context) ([]models.ManifestEntry, error) {
	var manifest models.ManifestResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&manifest).
		Get("/api/documents/manifest")
	if err != nil {
		return nil, fmt.Errorf("fetch manifest request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return manifest.Documents, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
