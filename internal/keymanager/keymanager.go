// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keymanager

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/cryptoprimitives"
	"github.com/inkwell-dev/sync-core/models"
)

// secretStoreKeyUEK and secretStoreKeyUEKVersion are the keys under which
// the UEK and its version are stored in [SecretStore].
const (
	secretStoreKeyUEK        = "uek"
	secretStoreKeyUEKVersion = "uek_version"
)

type keyManager struct {
	crypto cryptoprimitives.Primitives
	store  SecretStore
}

// New constructs a [KeyManager] backed by crypto and store.
func New(crypto cryptoprimitives.Primitives, store SecretStore) KeyManager {
	return &keyManager{crypto: crypto, store: store}
}

func (m *keyManager) HasUEK() (bool, error) {
	_, ok, err := m.store.Get(secretStoreKeyUEK)
	if err != nil {
		return false, fmt.Errorf("check uek presence: %w", err)
	}
	return ok, nil
}

func (m *keyManager) CreateUEKForRegistration(password string) (models.UEKServerRecord, models.UEKClientRecord, error) {
	uek, err := m.crypto.GenerateDEK() // UEK is the same size/shape as a DEK
	if err != nil {
		return models.UEKServerRecord{}, models.UEKClientRecord{}, fmt.Errorf("generate uek: %w", err)
	}
	salt, err := m.crypto.GenerateSalt()
	if err != nil {
		return models.UEKServerRecord{}, models.UEKClientRecord{}, fmt.Errorf("generate salt: %w", err)
	}

	kek := m.crypto.DeriveKEK(password, salt)

	wrapped, nonce, tag, err := m.crypto.WrapUEK(uek, kek)
	if err != nil {
		return models.UEKServerRecord{}, models.UEKClientRecord{}, fmt.Errorf("wrap uek: %w", err)
	}

	blob := models.UEKServerRecord{
		WrappedUEK: base64.StdEncoding.EncodeToString(wrapped),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(tag),
		Version:    1,
	}
	clientRecord := models.UEKClientRecord{UEK: uek, Version: 1}

	return blob, clientRecord, nil
}

func (m *keyManager) UnwrapUEKForLogin(password string, serverBlob models.UEKServerRecord) (models.UEKClientRecord, error) {
	salt, err := base64.StdEncoding.DecodeString(serverBlob.Salt)
	if err != nil {
		return models.UEKClientRecord{}, apperr.New(apperr.Corruption, "keymanager.UnwrapUEKForLogin", fmt.Errorf("decode salt: %w", err))
	}
	wrapped, err := base64.StdEncoding.DecodeString(serverBlob.WrappedUEK)
	if err != nil {
		return models.UEKClientRecord{}, apperr.New(apperr.Corruption, "keymanager.UnwrapUEKForLogin", fmt.Errorf("decode wrapped uek: %w", err))
	}
	nonce, err := base64.StdEncoding.DecodeString(serverBlob.Nonce)
	if err != nil {
		return models.UEKClientRecord{}, apperr.New(apperr.Corruption, "keymanager.UnwrapUEKForLogin", fmt.Errorf("decode nonce: %w", err))
	}
	tag, err := base64.StdEncoding.DecodeString(serverBlob.AuthTag)
	if err != nil {
		return models.UEKClientRecord{}, apperr.New(apperr.Corruption, "keymanager.UnwrapUEKForLogin", fmt.Errorf("decode auth tag: %w", err))
	}

	kek := m.crypto.DeriveKEK(password, salt)

	uek, err := m.crypto.UnwrapUEK(wrapped, nonce, tag, kek)
	if err != nil {
		// Wrong password or corrupted blob: fatal for this login attempt.
		return models.UEKClientRecord{}, apperr.New(apperr.AuthFailure, "keymanager.UnwrapUEKForLogin", err)
	}

	return models.UEKClientRecord{UEK: uek, Version: serverBlob.Version}, nil
}

func (m *keyManager) StoreUEK(uek models.UEKClientRecord) error {
	if err := m.store.Put(secretStoreKeyUEK, uek.UEK); err != nil {
		return fmt.Errorf("store uek: %w", err)
	}
	version := []byte(strconv.Itoa(uek.Version))
	if err := m.store.Put(secretStoreKeyUEKVersion, version); err != nil {
		return fmt.Errorf("store uek version: %w", err)
	}
	return nil
}

func (m *keyManager) GetUEK() (models.UEKClientRecord, error) {
	raw, ok, err := m.store.Get(secretStoreKeyUEK)
	if err != nil {
		return models.UEKClientRecord{}, fmt.Errorf("get uek: %w", err)
	}
	if !ok {
		return models.UEKClientRecord{}, apperr.ErrUEKNotPresent
	}
	version, err := m.GetUEKVersion()
	if err != nil {
		return models.UEKClientRecord{}, err
	}
	return models.UEKClientRecord{UEK: raw, Version: version}, nil
}

func (m *keyManager) GetUEKVersion() (int, error) {
	raw, ok, err := m.store.Get(secretStoreKeyUEKVersion)
	if err != nil {
		return 0, fmt.Errorf("get uek version: %w", err)
	}
	if !ok {
		return 0, nil
	}
	version, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("parse uek version: %w", err)
	}
	return version, nil
}

func (m *keyManager) DeleteUEK() error {
	if err := m.store.Delete(secretStoreKeyUEK); err != nil {
		return fmt.Errorf("delete uek: %w", err)
	}
	if err := m.store.Delete(secretStoreKeyUEKVersion); err != nil {
		return fmt.Errorf("delete uek version: %w", err)
	}
	return nil
}

func (m *keyManager) IsUEKStale(serverVersion int) (bool, error) {
	localVersion, err := m.GetUEKVersion()
	if err != nil {
		return false, err
	}
	return localVersion < serverVersion, nil
}
