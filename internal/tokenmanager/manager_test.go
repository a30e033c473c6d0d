package tokenmanager

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/keymanager"
	"github.com/stretchr/testify/require"
)

func TestStoreAuthTokens_GetValidAccessToken_ReturnsInMemoryToken(t *testing.T) {
	tm := New(keymanager.NewMemorySecretStore())
	require.NoError(t, tm.StoreAuthTokens("access1", "refresh1", 900))

	token, err := tm.GetValidAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access1", token)
}

func TestGetValidAccessToken_RefreshesOnExpiry(t *testing.T) {
	orig := nowFunc
	defer func() { nowFunc = orig }()

	current := time.Now()
	nowFunc = func() time.Time { return current }

	tm := New(keymanager.NewMemorySecretStore())
	require.NoError(t, tm.StoreAuthTokens("access1", "refresh1", 900))

	var refreshCalls int32
	tm.SetRefresher(func(ctx context.Context, refreshToken string) (string, int, error) {
		atomic.AddInt32(&refreshCalls, 1)
		require.Equal(t, "refresh1", refreshToken)
		return "access2", 900, nil
	})

	current = current.Add(1000 * time.Second) // past expiry

	token, err := tm.GetValidAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access2", token)
	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
}

func TestGetValidAccessToken_RefreshFailureClearsTokensAndSurfacesSessionExpired(t *testing.T) {
	orig := nowFunc
	defer func() { nowFunc = orig }()
	current := time.Now()
	nowFunc = func() time.Time { return current }

	tm := New(keymanager.NewMemorySecretStore())
	require.NoError(t, tm.StoreAuthTokens("access1", "refresh1", 900))
	tm.SetRefresher(func(ctx context.Context, refreshToken string) (string, int, error) {
		return "", 0, context.DeadlineExceeded
	})

	current = current.Add(1000 * time.Second)

	_, err := tm.GetValidAccessToken(context.Background())
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.AuthFailure))
}

func TestClear_RemovesBothTokens(t *testing.T) {
	tm := New(keymanager.NewMemorySecretStore())
	require.NoError(t, tm.StoreAuthTokens("access1", "refresh1", 900))
	require.NoError(t, tm.Clear())

	tm.SetRefresher(func(ctx context.Context, refreshToken string) (string, int, error) {
		t.Fatal("refresher must not be called when no refresh token is stored")
		return "", 0, nil
	})

	_, err := tm.GetValidAccessToken(context.Background())
	require.Error(t, err)
}
