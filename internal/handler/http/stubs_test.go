// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"io"

	"github.com/inkwell-dev/sync-core/internal/server/assetstore"
	"github.com/inkwell-dev/sync-core/internal/server/auth"
	"github.com/inkwell-dev/sync-core/internal/server/docstore"
	"github.com/inkwell-dev/sync-core/models"
)

// stubAuthService implements auth.Service with per-method override hooks,
// shared by this package's handler and middleware tests.
type stubAuthService struct {
	registerFn     func(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	loginFn        func(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	refreshFn      func(ctx context.Context, refreshToken string) (models.RefreshResponse, error)
	logoutFn       func(ctx context.Context, refreshToken string) error
	verifyTokenFn  func(ctx context.Context, accessToken string) (int64, error)
	meFn           func(ctx context.Context, userID int64) (models.UserDTO, error)
}

func (s *stubAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return s.registerFn(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	return s.loginFn(ctx, req)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, refreshToken)
}

func (s *stubAuthService) VerifyAccessToken(ctx context.Context, accessToken string) (int64, error) {
	return s.verifyTokenFn(ctx, accessToken)
}

func (s *stubAuthService) Me(ctx context.Context, userID int64) (models.UserDTO, error) {
	return s.meFn(ctx, userID)
}

var _ auth.Service = (*stubAuthService)(nil)

// stubDocStore implements docstore.Store for route and handler tests.
type stubDocStore struct {
	manifestFn func(ctx context.Context, userID int64) ([]models.ManifestEntry, error)
}

func (s *stubDocStore) Upsert(ctx context.Context, uuid string, userID int64, state []byte, updatedBy string) error {
	return nil
}

func (s *stubDocStore) GetByIDForUser(ctx context.Context, uuid string, userID int64) ([]byte, int64, bool, error) {
	return nil, 0, false, nil
}

func (s *stubDocStore) GetOwner(ctx context.Context, uuid string) (int64, bool, error) {
	return 0, false, nil
}

func (s *stubDocStore) Manifest(ctx context.Context, userID int64) ([]models.ManifestEntry, error) {
	if s.manifestFn == nil {
		return nil, nil
	}
	return s.manifestFn(ctx, userID)
}

var _ docstore.Store = (*stubDocStore)(nil)

// stubAssetStore implements assetstore.Store for handler tests.
type stubAssetStore struct {
	saveFn        func(ctx context.Context, meta assetstore.Asset, content io.Reader) (assetstore.Asset, error)
	getMetadataFn func(ctx context.Context, id string, userID int64) (assetstore.Asset, bool, error)
	openFn        func(ctx context.Context, id string, userID int64) (io.ReadCloser, assetstore.Asset, bool, error)
	deleteFn      func(ctx context.Context, id string, userID int64) (bool, error)
}

func (s *stubAssetStore) Save(ctx context.Context, meta assetstore.Asset, content io.Reader) (assetstore.Asset, error) {
	return s.saveFn(ctx, meta, content)
}

func (s *stubAssetStore) GetMetadata(ctx context.Context, id string, userID int64) (assetstore.Asset, bool, error) {
	return s.getMetadataFn(ctx, id, userID)
}

func (s *stubAssetStore) Open(ctx context.Context, id string, userID int64) (io.ReadCloser, assetstore.Asset, bool, error) {
	return s.openFn(ctx, id, userID)
}

func (s *stubAssetStore) Delete(ctx context.Context, id string, userID int64) (bool, error) {
	return s.deleteFn(ctx, id, userID)
}

var _ assetstore.Store = (*stubAssetStore)(nil)
