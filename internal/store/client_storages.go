// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/inkwell-dev/sync-core/internal/assetpipeline"
	"github.com/inkwell-dev/sync-core/internal/config"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/syncqueue"
)

// ClientStorages groups every SQLite-backed repository the client runtime
// needs into a single value that can be passed around during startup wiring.
type ClientStorages struct {
	Entries     ClientEntryRepository
	Queue       syncqueue.Store
	EntryLookup syncqueue.EntryLookup
	Assets      assetpipeline.Store
	Settings    SettingsRepository
}

// NewClientStorages opens (creating if needed) the client's SQLite database
// at cfg.DB.DSN, runs pending migrations, and returns a [ClientStorages]
// value wired to fresh repositories sharing that single connection.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Entries:     NewEntryRepository(db, log),
		Queue:       NewQueueRepository(db, log),
		EntryLookup: NewEntryLookup(db),
		Assets:      NewAssetRepository(db, log),
		Settings:    NewSettingsRepository(db, log),
	}, nil
}
