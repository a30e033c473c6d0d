// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	UEK      *UEKUploadDTO `json:"uek,omitempty"`
}

// UEKUploadDTO is the client-computed, server-opaque wrapped-UEK blob sent
// at registration time.
type UEKUploadDTO struct {
	WrappedUEK string `json:"wrappedUek"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	AuthTag    string `json:"authTag"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the 200 body shared by register/login.
type AuthResponse struct {
	User         UserDTO          `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	UEK          *UEKServerRecord `json:"uek,omitempty"`
}

// UserDTO is the public-facing projection of User returned to clients.
type UserDTO struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// RefreshRequest is the body of POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse is the body returned by POST /api/auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// LogoutRequest is the body of POST /api/auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthErrorCode enumerates the canonical error codes of spec §6.
type AuthErrorCode string

const (
	ErrCodeInvalidEmail        AuthErrorCode = "INVALID_EMAIL"
	ErrCodeEmailExists         AuthErrorCode = "EMAIL_EXISTS"
	ErrCodeWeakPassword        AuthErrorCode = "WEAK_PASSWORD"
	ErrCodeInvalidCredentials  AuthErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidRefreshToken AuthErrorCode = "INVALID_REFRESH_TOKEN"
	ErrCodeInvalidAccessToken  AuthErrorCode = "INVALID_ACCESS_TOKEN"
	ErrCodeUserNotFound        AuthErrorCode = "USER_NOT_FOUND"
)

// AuthErrorResponse is the JSON body of a non-2xx auth response.
type AuthErrorResponse struct {
	Error string        `json:"error"`
	Code  AuthErrorCode `json:"code"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}
