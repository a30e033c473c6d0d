// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/store"
	"github.com/inkwell-dev/sync-core/internal/utils"
	"github.com/inkwell-dev/sync-core/models"
)

// refreshTokenTTL is how long an issued refresh token remains redeemable
// (90 days).
const refreshTokenTTL = 90 * 24 * time.Hour

type service struct {
	users    store.UserRepository
	tokens   store.RefreshTokenRepository
	ueks     store.UEKRepository
	hasher   *passwordHasher
	logger   *logger.Logger
	signKey  string
	issuer   string
	accessTL time.Duration
}

// NewService constructs a [Service] wired to the given repositories. signKey
// and issuer parameterise JWT issuance/verification; accessTokenTTL is the
// lifetime stamped into each issued access token's expiry claim.
func NewService(
	users store.UserRepository,
	tokens store.RefreshTokenRepository,
	ueks store.UEKRepository,
	signKey, issuer string,
	accessTokenTTL time.Duration,
	log *logger.Logger,
) Service {
	log.Debug().Msg("creating auth service")
	return &service{
		users:    users,
		tokens:   tokens,
		ueks:     ueks,
		hasher:   newPasswordHasher(),
		logger:   log,
		signKey:  signKey,
		issuer:   issuer,
		accessTL: accessTokenTTL,
	}
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func (s *service) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	if err := validateEmail(req.Email); err != nil {
		return models.AuthResponse{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return models.AuthResponse{}, err
	}

	authHash, err := s.hasher.hash(req.Password)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{Email: req.Email, AuthHash: authHash})
	if err != nil {
		if errors.Is(err, store.ErrLoginAlreadyExists) {
			return models.AuthResponse{}, ErrEmailExists
		}
		return models.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	var uekRecord *models.UEKServerRecord
	if req.UEK != nil {
		rec := models.UEKServerRecord{
			UserID:     user.UserID,
			WrappedUEK: req.UEK.WrappedUEK,
			Salt:       req.UEK.Salt,
			Nonce:      req.UEK.Nonce,
			AuthTag:    req.UEK.AuthTag,
			Version:    1,
		}
		if err := s.ueks.Upsert(ctx, rec); err != nil {
			return models.AuthResponse{}, fmt.Errorf("store uek: %w", err)
		}
		uekRecord = &rec
	}

	return s.issueAuthResponse(ctx, user, uekRecord)
}

func (s *service) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	user, err := s.users.FindUserByLogin(ctx, models.User{Email: req.Email})
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.AuthResponse{}, ErrInvalidCredentials
		}
		return models.AuthResponse{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.verify(req.Password, user.AuthHash)
	if err != nil || !ok {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	rec, found, err := s.ueks.Get(ctx, user.UserID)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("load uek: %w", err)
	}
	var uekRecord *models.UEKServerRecord
	if found {
		uekRecord = &rec
	}

	return s.issueAuthResponse(ctx, user, uekRecord)
}

func (s *service) issueAuthResponse(ctx context.Context, user models.User, uek *models.UEKServerRecord) (models.AuthResponse, error) {
	jwtToken, err := utils.GenerateJWTToken(s.issuer, user.UserID, s.accessTL, s.signKey)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, tokenHash, err := newRefreshToken()
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.Create(ctx, user.UserID, tokenHash, time.Now().Add(refreshTokenTTL)); err != nil {
		return models.AuthResponse{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return models.AuthResponse{
		User:         models.UserDTO{UserID: user.UserID, Email: user.Email},
		AccessToken:  jwtToken.SignedString,
		RefreshToken: refreshToken,
		UEK:          uek,
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	tokenHash := hashRefreshToken(refreshToken)
	rec, found, err := s.tokens.FindActiveByHash(ctx, tokenHash)
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("look up refresh token: %w", err)
	}
	if !found {
		return models.RefreshResponse{}, ErrInvalidRefreshToken
	}

	jwtToken, err := utils.GenerateJWTToken(s.issuer, rec.UserID, s.accessTL, s.signKey)
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("issue access token: %w", err)
	}
	return models.RefreshResponse{AccessToken: jwtToken.SignedString}, nil
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, hashRefreshToken(refreshToken))
}

func (s *service) VerifyAccessToken(ctx context.Context, accessToken string) (int64, error) {
	token, err := utils.ValidateAndParseJWTToken(accessToken, s.signKey, s.issuer)
	if err != nil {
		return 0, ErrInvalidAccessToken
	}
	return token.UserID, nil
}

func (s *service) Me(ctx context.Context, userID int64) (models.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.UserDTO{}, fmt.Errorf("find user: %w", err)
	}
	return models.UserDTO{UserID: user.UserID, Email: user.Email}, nil
}

// newRefreshToken returns a fresh random refresh token and the hash under
// which it is stored server-side; the server never persists the raw token.
func newRefreshToken() (token, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, hashRefreshToken(token), nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
