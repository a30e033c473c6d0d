// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// passwordHasher verifies user passwords against an Argon2id digest. This
// is separate from the client's key hierarchy, which derives its KEK with
// PBKDF2; here Argon2id is applied purely as a password hash — there is no
// key to unwrap, only a yes/no verification.
type passwordHasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// newPasswordHasher returns a passwordHasher tuned to the OWASP (2024)
// recommended Argon2id parameters.
func newPasswordHasher() *passwordHasher {
	return &passwordHasher{
		time:    1,
		memory:  64 * 1024, // 64 MiB
		threads: 4,
		keyLen:  32,
	}
}

// hash derives an Argon2id digest of password with a fresh random salt and
// encodes both into a single self-describing string:
// argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt-b64>$<hash-b64>.
func (h *passwordHasher) hash(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// verify reports whether password matches the digest encoded in
// authHash, which must be in the format produced by [passwordHasher.hash].
func (h *passwordHasher) verify(password, authHash string) (bool, error) {
	parts := strings.Split(authHash, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return false, fmt.Errorf("malformed auth hash")
	}

	var version int
	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parse version: %w", err)
	}
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false, fmt.Errorf("parse params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode digest: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
