// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/inkwell-dev/sync-core/internal/assetpipeline"
	"github.com/inkwell-dev/sync-core/internal/config"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/syncmanager"
	"github.com/inkwell-dev/sync-core/internal/tui"
	"github.com/inkwell-dev/sync-core/models"
)

// SyncManagerFactory builds the per-session [syncmanager.Manager] once the
// authenticated user's id is known. The manager is constructed fresh on
// every login because it binds userID and a replica id at construction
// time (spec §4.7).
type SyncManagerFactory func(ctx context.Context, userID int64) (syncmanager.Manager, error)

// AssetPipelineFactory builds the per-session [assetpipeline.Pipeline]
// alongside the sync manager, since both bind the same token source and
// authenticated user.
type AssetPipelineFactory func(ctx context.Context, userID int64) (assetpipeline.Pipeline, error)

// App is the concrete interactive client runtime.
//
// It coordinates the login/registration TUI flow, builds the per-session
// sync manager and asset pipeline once a user is authenticated, runs
// periodic reconciliation alongside the live sync queue, and drives the
// main terminal UI loop.
type App struct {
	newSyncManager   SyncManagerFactory
	newAssetPipeline AssetPipelineFactory
	tui              *tui.TUI
	syncInterval     time.Duration
	buildInfo        models.AppBuildInfo
	log              *logger.Logger
}

// newApp constructs an [App] using factories for the per-session sync
// manager and asset pipeline, the terminal UI facade, worker
// configuration, and build metadata. newAssetPipeline may be nil, in which
// case attachment upload/download stays disabled for the session. Assembled
// by [NewApp] in wire.go.
func newApp(newSyncManager SyncManagerFactory, newAssetPipeline AssetPipelineFactory, ui *tui.TUI, cfg config.ClientWorkers, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	return &App{
		newSyncManager:   newSyncManager,
		newAssetPipeline: newAssetPipeline,
		tui:              ui,
		syncInterval:     cfg.SyncInterval,
		buildInfo:        buildInfo,
		log:              log,
	}, nil
}

// Run executes the full client lifecycle.
//
// Flow:
//  1. Run the login/registration flow and obtain the authenticated user's id.
//  2. Build a fresh [syncmanager.Manager] (and, if configured, an
//     [assetpipeline.Pipeline]) bound to that user, and start both.
//  3. Perform an initial reconciliation (non-fatal warning on failure) and
//     schedule periodic reconciliation alongside the live sync queue.
//  4. Run the main TUI loop.
//  5. On logout request, tear down the sync manager and asset pipeline and
//     restart the lifecycle from login.
func (a *App) Run() error {
	ctx := context.Background()

	userID, _, err := a.tui.LoginFlow(ctx, a.buildInfo)
	if err != nil {
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		return err
	}

	mgr, err := a.newSyncManager(ctx, userID)
	if err != nil {
		return fmt.Errorf("build sync manager: %w", err)
	}

	var assets assetpipeline.Pipeline
	if a.newAssetPipeline != nil {
		assets, err = a.newAssetPipeline(ctx, userID)
		if err != nil {
			return fmt.Errorf("build asset pipeline: %w", err)
		}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	mgr.Start(sessionCtx)
	if assets != nil {
		assets.Start(sessionCtx)
	}

	if err = mgr.PerformReconciliation(sessionCtx); err != nil {
		fmt.Fprintf(os.Stderr, "sync warning: %v\n", err)
	}

	stopTicker := a.runPeriodicReconciliation(sessionCtx, mgr)

	logout, err := a.tui.MainLoop(ctx, userID, mgr, a.buildInfo)

	stopTicker()
	mgr.Stop()
	if assets != nil {
		assets.Stop()
	}
	cancel()

	if logout {
		return a.Run()
	}
	return err
}

// runPeriodicReconciliation starts a background ticker that re-runs
// reconciliation at the configured interval, covering entries that were
// missed while the client was offline or the WebSocket session dropped. It
// returns a function that stops the ticker.
func (a *App) runPeriodicReconciliation(ctx context.Context, mgr syncmanager.Manager) func() {
	if a.syncInterval <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(a.syncInterval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if err := mgr.PerformReconciliation(ctx); err != nil {
					a.log.Warn().Err(err).Msg("periodic reconciliation failed")
				}
			}
		}
	}()

	return func() { close(done) }
}
