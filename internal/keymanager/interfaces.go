// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keymanager owns the lifecycle of the user-encryption key (UEK) on
// the client: generating it at registration, unwrapping it at login, and
// storing/retrieving the cleartext copy from the platform secure keystore.
package keymanager

import "github.com/inkwell-dev/sync-core/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/keymanager_mock.go -package=mock

// SecretStore is the platform secure-keystore abstraction (Android
// Keystore, iOS Keychain, OS credential manager, etc.). KeyManager never
// persists key material anywhere else.
type SecretStore interface {
	// Put stores value under key, overwriting any existing entry.
	Put(key string, value []byte) error

	// Get retrieves the value stored under key. ok is false if no entry
	// exists.
	Get(key string) (value []byte, ok bool, err error)

	// Delete removes the entry under key. It is not an error if key does
	// not exist.
	Delete(key string) error
}

// KeyManager is the sole implementor of the KeyManager contract (spec
// §4.2).
type KeyManager interface {
	// HasUEK reports whether a UEK is currently present in the
	// SecretStore.
	HasUEK() (bool, error)

	// CreateUEKForRegistration generates a random UEK and salt, derives
	// the KEK from password and the new salt, and wraps the UEK under the
	// KEK. Returns the server-bound registration blob and the cleartext
	// UEK (version 1) to be stored locally by the caller via StoreUEK.
	CreateUEKForRegistration(password string) (registrationBlob models.UEKServerRecord, uek models.UEKClientRecord, err error)

	// UnwrapUEKForLogin derives the KEK from password and the salt
	// embedded in serverBlob, then unwraps the UEK. A failed unwrap
	// (wrong password, corrupted blob) is fatal for this login attempt
	// and is never silently ignored.
	UnwrapUEKForLogin(password string, serverBlob models.UEKServerRecord) (models.UEKClientRecord, error)

	// StoreUEK persists uek (version included) to the SecretStore,
	// replacing any prior entry.
	StoreUEK(uek models.UEKClientRecord) error

	// GetUEK retrieves the current UEK from the SecretStore.
	// [apperr.ErrUEKNotPresent] is returned if none is stored.
	GetUEK() (models.UEKClientRecord, error)

	// GetUEKVersion returns the version of the locally stored UEK, or 0 if
	// none is stored.
	GetUEKVersion() (int, error)

	// DeleteUEK removes the UEK from the SecretStore (used on logout).
	DeleteUEK() error

	// IsUEKStale reports whether the locally stored UEK version is behind
	// serverVersion, meaning re-authentication is needed before further
	// encryption can proceed.
	IsUEKStale(serverVersion int) (bool, error)
}
