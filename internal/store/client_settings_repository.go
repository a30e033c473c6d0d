// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/models"
)

// SettingsRepository persists the user-editable half of the client's sync
// configuration in the local single-row-per-user "sync_settings" table.
type SettingsRepository interface {
	// Get returns the persisted settings for userID, or
	// [models.DefaultSyncSettings] with UserID set if none exist yet.
	Get(ctx context.Context, userID int64) (models.SyncSettings, error)

	// Save upserts settings, keyed by settings.UserID.
	Save(ctx context.Context, settings models.SyncSettings) error
}

type settingsRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSettingsRepository constructs a [SettingsRepository] backed by db.
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	logger.Debug().Msg("creating sync settings repository")
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) Get(ctx context.Context, userID int64) (models.SyncSettings, error) {
	var s models.SyncSettings
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, server_url, email, enabled, wifi_only_threshold_bytes, auto_sync_interval_seconds, updated_at FROM sync_settings WHERE user_id = ?",
		userID,
	).Scan(&s.UserID, &s.ServerURL, &s.Email, &s.Enabled, &s.WiFiOnlyThresholdBytes, &s.AutoSyncIntervalSeconds, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.DefaultSyncSettings()
		defaults.UserID = userID
		return defaults, nil
	}
	if err != nil {
		return models.SyncSettings{}, fmt.Errorf("get sync settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings models.SyncSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_settings (user_id, server_url, email, enabled, wifi_only_threshold_bytes, auto_sync_interval_seconds, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			server_url = excluded.server_url,
			email = excluded.email,
			enabled = excluded.enabled,
			wifi_only_threshold_bytes = excluded.wifi_only_threshold_bytes,
			auto_sync_interval_seconds = excluded.auto_sync_interval_seconds,
			updated_at = excluded.updated_at`,
		settings.UserID, settings.ServerURL, settings.Email, settings.Enabled,
		settings.WiFiOnlyThresholdBytes, settings.AutoSyncIntervalSeconds, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save sync settings: %w", err)
	}
	return nil
}
