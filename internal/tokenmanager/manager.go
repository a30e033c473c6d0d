// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tokenmanager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/inkwell-dev/sync-core/internal/apperr"
)

const (
	secretStoreKeyRefreshToken = "refresh_token"
	defaultExpiresInSeconds    = 900
)

// nowFunc is overridable in tests.
var nowFunc = time.Now

type tokenManager struct {
	store RefreshStore

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time

	refresher Refresher
	timer     *time.Timer

	inFlight *sync.WaitGroup
}

// New constructs a [TokenManager] backed by store.
func New(store RefreshStore) TokenManager {
	return &tokenManager{store: store}
}

func (m *tokenManager) SetRefresher(r Refresher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresher = r
}

func (m *tokenManager) StoreAuthTokens(access, refresh string, expiresIn int) error {
	if expiresIn <= 0 {
		expiresIn = defaultExpiresInSeconds
	}

	if err := m.store.Put(secretStoreKeyRefreshToken, []byte(refresh)); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	m.mu.Lock()
	m.accessToken = access
	m.expiresAt = nowFunc().Add(time.Duration(expiresIn) * time.Second)
	m.scheduleProactiveRefreshLocked(time.Duration(expiresIn) * time.Second)
	m.mu.Unlock()

	return nil
}

// scheduleProactiveRefreshLocked arms a timer at min(ttl-5min, 0.75*ttl),
// per spec §4.9. When it fires, the current access token is treated as
// expired so that GetValidAccessToken performs a refresh. Must be called
// with m.mu held.
func (m *tokenManager) scheduleProactiveRefreshLocked(ttl time.Duration) {
	if m.timer != nil {
		m.timer.Stop()
	}

	minusFive := ttl - 5*time.Minute
	threeQuarters := time.Duration(float64(ttl) * 0.75)
	delay := threeQuarters
	if minusFive < delay {
		delay = minusFive
	}
	if delay <= 0 {
		return
	}

	m.timer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		m.expiresAt = time.Time{}
		m.mu.Unlock()
		_, _ = m.GetValidAccessToken(context.Background())
	})
}

func (m *tokenManager) GetValidAccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.accessToken != "" && nowFunc().Before(m.expiresAt) {
		token := m.accessToken
		m.mu.Unlock()
		return token, nil
	}

	if m.inFlight != nil {
		wg := m.inFlight
		m.mu.Unlock()
		wg.Wait()
		m.mu.Lock()
		token := m.accessToken
		expired := token == "" || !nowFunc().Before(m.expiresAt)
		m.mu.Unlock()
		if expired {
			return "", apperr.ErrSessionExpired
		}
		return token, nil
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	m.inFlight = wg
	refresher := m.refresher
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = nil
		m.mu.Unlock()
		wg.Done()
	}()

	if refresher == nil {
		_ = m.Clear()
		return "", apperr.ErrSessionExpired
	}

	refreshRaw, ok, err := m.store.Get(secretStoreKeyRefreshToken)
	if err != nil || !ok {
		_ = m.Clear()
		return "", apperr.ErrSessionExpired
	}

	access, expiresIn, err := refresher(ctx, string(refreshRaw))
	if err != nil {
		_ = m.Clear()
		return "", apperr.ErrSessionExpired
	}

	if expiresIn <= 0 {
		expiresIn = defaultExpiresInSeconds
	}

	m.mu.Lock()
	m.accessToken = access
	m.expiresAt = nowFunc().Add(time.Duration(expiresIn) * time.Second)
	m.scheduleProactiveRefreshLocked(time.Duration(expiresIn) * time.Second)
	m.mu.Unlock()

	return access, nil
}

func (m *tokenManager) Clear() error {
	m.mu.Lock()
	m.accessToken = ""
	m.expiresAt = time.Time{}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	if err := m.store.Delete(secretStoreKeyRefreshToken); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
