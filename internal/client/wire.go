// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-dev/sync-core/internal/adapter"
	"github.com/inkwell-dev/sync-core/internal/assetpipeline"
	"github.com/inkwell-dev/sync-core/internal/config"
	"github.com/inkwell-dev/sync-core/internal/crdtmapper"
	"github.com/inkwell-dev/sync-core/internal/cryptoprimitives"
	"github.com/inkwell-dev/sync-core/internal/entrycodec"
	"github.com/inkwell-dev/sync-core/internal/keymanager"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/netmonitor"
	"github.com/inkwell-dev/sync-core/internal/store"
	"github.com/inkwell-dev/sync-core/internal/syncclient"
	"github.com/inkwell-dev/sync-core/internal/syncmanager"
	"github.com/inkwell-dev/sync-core/internal/syncqueue"
	"github.com/inkwell-dev/sync-core/internal/tokenmanager"
	"github.com/inkwell-dev/sync-core/internal/tui"
	"github.com/inkwell-dev/sync-core/models"
)

const displayName = "inkwell-sync-cli"

// NewApp wires the full client dependency graph and returns a ready-to-run
// [App]. It is the single assembly point cmd/client/main.go calls into,
// keeping every concrete constructor out of the entrypoint.
func NewApp(buildInfo models.AppBuildInfo) (*App, error) {
	log := logger.NewClientLogger("inkwell-sync-client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}

	ctx := context.Background()
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create client storages: %w", err)
	}

	secretStore := keymanager.NewMemorySecretStore()
	crypto := cryptoprimitives.New()
	keys := keymanager.New(crypto, secretStore)

	server, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	tokens := tokenmanager.New(secretStore)
	tokens.SetRefresher(func(ctx context.Context, refreshToken string) (string, int, error) {
		resp, err := server.Refresh(ctx, refreshToken)
		if err != nil {
			return "", 0, err
		}
		return resp.AccessToken, 0, nil
	})

	serverBaseURL := normalizeBaseURL(cfg.Adapter.HTTPAddress)
	syncClient := syncclient.New(serverBaseURL, displayName, tokens)
	codec := entrycodec.New(crypto)
	mapper := crdtmapper.New()
	queue := syncqueue.New(storages.Queue, storages.EntryLookup)

	newSyncManager := func(ctx context.Context, userID int64) (syncmanager.Manager, error) {
		return syncmanager.New(log, storages.Entries, server, keys, codec, mapper, syncClient, queue, userID, newReplicaID()), nil
	}

	// No platform-specific connectivity monitor ships in this module (spec
	// §4.11 reserves Reachability/ConnectivityManager bindings for mobile
	// builds); the desktop CLI reports itself permanently online so the
	// asset pipeline's WiFi gate defers only to the upload's own size
	// threshold.
	monitor := netmonitor.NewManualMonitor()
	monitor.SetConnection(netmonitor.ConnectionWiFi)

	newAssetPipeline := func(ctx context.Context, userID int64) (assetpipeline.Pipeline, error) {
		return assetpipeline.New(log, storages.Assets, assetpipeline.NewOSFileReader(), monitor, crypto, keys, tokens, serverBaseURL), nil
	}

	ui, err := tui.New(server, keys, storages.Entries, log)
	if err != nil {
		return nil, fmt.Errorf("create tui: %w", err)
	}

	return newApp(newSyncManager, newAssetPipeline, ui, cfg.Workers, buildInfo, log)
}

// newReplicaID mints a fresh CRDT replica identifier. A new id is minted
// per login (not persisted across runs), matching syncmanager.Manager's own
// per-session construction.
func newReplicaID() string {
	return uuid.NewString()
}

// normalizeBaseURL mirrors adapter.NewHTTPServerAdapter's own defaulting so
// the WebSocket and REST attachment clients agree with the REST adapter on
// which scheme an address without one resolves to.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return raw
}
