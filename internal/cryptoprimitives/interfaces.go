// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cryptoprimitives implements the client-side zero-knowledge
// cryptography layer for the sync core.
//
// # Key hierarchy
//
// The package follows a three-level key hierarchy that ensures the server
// never sees plaintext entry data or any key that could recover it:
//
//  1. KEK (key-encryption key) — derived from the user's master password and
//     a random salt using PBKDF2-HMAC-SHA256 (600,000 iterations). It wraps
//     the UEK so the wrapped blob can be stored on the server safely.
//  2. UEK (user-encryption key) — a random 256-bit key generated once at
//     registration. It wraps the per-entry DEKs. The server only ever holds
//     UEK wrapped under KEK; it never sees the UEK itself.
//  3. DEK (data-encryption key) — a random 256-bit AES key generated fresh
//     per entry (and per asset upload). It encrypts the entry's plaintext
//     content.
//
// Every AEAD operation uses AES-256-GCM with a 12-byte nonce fresh per call
// and returns the authentication tag separately from the ciphertext — the
// wire format never concatenates tag and ciphertext (see
// [models.EncryptedEnvelopeV2]).
package cryptoprimitives

//go:generate mockgen -source=interfaces.go -destination=../mock/cryptoprimitives_mock.go -package=mock

// Primitives is the sole implementor of the CryptoPrimitives contract (spec
// §4.1). It has no knowledge of the network, database, or user identity —
// its only responsibility is generating key material and performing AEAD
// operations.
type Primitives interface {
	// GenerateDEK returns 32 fresh CSPRNG bytes, the data-encryption key.
	GenerateDEK() ([]byte, error)

	// GenerateNonce returns 12 fresh CSPRNG bytes, a GCM nonce.
	GenerateNonce() ([]byte, error)

	// GenerateSalt returns 32 fresh CSPRNG bytes, a PBKDF2 salt.
	GenerateSalt() ([]byte, error)

	// DeriveKEK derives a 256-bit key-encryption key from password and salt
	// using PBKDF2-HMAC-SHA256 with 600,000 iterations.
	DeriveKEK(password string, salt []byte) []byte

	// EncryptContent encrypts plaintext with key (DEK or UEK) under a fresh
	// nonce. Returns ciphertext, the nonce used, and the 16-byte
	// authentication tag — kept separate from the ciphertext.
	EncryptContent(plaintext, key []byte) (ciphertext, nonce, tag []byte, err error)

	// DecryptContent verifies tag and decrypts ciphertext under key and
	// nonce. Returns an [apperr.Corruption] error if the tag does not verify.
	DecryptContent(ciphertext, nonce, tag, key []byte) ([]byte, error)

	// WrapDEK wraps dek under uek, identical AEAD to EncryptContent.
	WrapDEK(dek, uek []byte) (wrapped, nonce, tag []byte, err error)

	// UnwrapDEK reverses WrapDEK.
	UnwrapDEK(wrapped, nonce, tag, uek []byte) ([]byte, error)

	// WrapUEK wraps uek under kek, identical AEAD to EncryptContent.
	WrapUEK(uek, kek []byte) (wrapped, nonce, tag []byte, err error)

	// UnwrapUEK reverses WrapUEK.
	UnwrapUEK(wrapped, nonce, tag, kek []byte) ([]byte, error)
}
