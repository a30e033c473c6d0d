// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import "errors"

var (
	// ErrInvalidEmail is returned when the supplied email fails basic
	// format validation.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrEmailExists is returned at registration time when the email is
	// already associated with an account.
	ErrEmailExists = errors.New("email already registered")

	// ErrWeakPassword is returned when the supplied password does not meet
	// the minimum length requirement.
	ErrWeakPassword = errors.New("password does not meet minimum requirements")

	// ErrInvalidCredentials is returned when the email/password pair does
	// not match a known account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRefreshToken is returned when a refresh token is unknown,
	// expired, or revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidAccessToken is returned when a bearer access token fails
	// signature, issuer, or expiry verification.
	ErrInvalidAccessToken = errors.New("invalid access token")
)

const minPasswordLength = 8
