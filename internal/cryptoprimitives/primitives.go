// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cryptoprimitives

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/inkwell-dev/sync-core/internal/apperr"
)

// pbkdf2Iterations is fixed at 600,000 per spec §4.1.
const pbkdf2Iterations = 600_000

const (
	dekSize  = 32 // 256-bit AES key
	saltSize = 32
	// gcmNonceSize and gcmTagSize match the standard library's NonceSize()
	// and Overhead() for AES-256-GCM; kept as named constants since the
	// wire format (models.EncryptedEnvelopeV2) hard-codes these lengths.
	gcmNonceSize = 12
	gcmTagSize   = 16
)

// primitives is the sole implementation of [Primitives].
type primitives struct{}

// New constructs a [Primitives].
func New() Primitives {
	return &primitives{}
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

func (p *primitives) GenerateDEK() ([]byte, error)   { return randomBytes(dekSize) }
func (p *primitives) GenerateNonce() ([]byte, error) { return randomBytes(gcmNonceSize) }
func (p *primitives) GenerateSalt() ([]byte, error)  { return randomBytes(saltSize) }

// DeriveKEK implements [Primitives]. PBKDF2-HMAC-SHA256, 600,000
// iterations, 256-bit output — not Argon2id, per spec §4.1.
func (p *primitives) DeriveKEK(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, dekSize, sha256.New)
}

// aeadSeal encrypts plaintext under key with a fresh nonce, returning
// ciphertext and tag separately (the stdlib's GCM.Seal appends the tag to
// the ciphertext; the wire format here requires them split).
func aeadSeal(plaintext, key []byte) (ciphertext, nonce, tag []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create gcm: %w", err)
	}
	nonce, err = randomBytes(gcm.NonceSize())
	if err != nil {
		return nil, nil, nil, err
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - gcm.Overhead()
	ciphertext = sealed[:split]
	tag = sealed[split:]
	return ciphertext, nonce, tag, nil
}

// aeadOpen reassembles ciphertext‖tag and verifies+decrypts under key and
// nonce. Returns [apperr.ErrTagVerificationFailed] (Kind Corruption) if the
// tag does not verify.
func aeadOpen(ciphertext, nonce, tag, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, apperr.New(apperr.Corruption, "cryptoprimitives.decrypt", apperr.ErrTagVerificationFailed)
	}
	return plaintext, nil
}

func (p *primitives) EncryptContent(plaintext, key []byte) (ciphertext, nonce, tag []byte, err error) {
	return aeadSeal(plaintext, key)
}

func (p *primitives) DecryptContent(ciphertext, nonce, tag, key []byte) ([]byte, error) {
	return aeadOpen(ciphertext, nonce, tag, key)
}

func (p *primitives) WrapDEK(dek, uek []byte) (wrapped, nonce, tag []byte, err error) {
	return aeadSeal(dek, uek)
}

func (p *primitives) UnwrapDEK(wrapped, nonce, tag, uek []byte) ([]byte, error) {
	return aeadOpen(wrapped, nonce, tag, uek)
}

func (p *primitives) WrapUEK(uek, kek []byte) (wrapped, nonce, tag []byte, err error) {
	return aeadSeal(uek, kek)
}

func (p *primitives) UnwrapUEK(wrapped, nonce, tag, kek []byte) ([]byte, error) {
	return aeadOpen(wrapped, nonce, tag, kek)
}
