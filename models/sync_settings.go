// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncSettings is the persisted, user-editable half of the client's sync
// configuration (table `sync_settings`, single row keyed by UserID). It is
// layered on top of static ClientConfig defaults the same way the static
// config layers on top of env vars.
type SyncSettings struct {
	UserID int64 `json:"userId"`

	ServerURL string `json:"serverUrl"`
	Email     string `json:"email"`

	Enabled bool `json:"enabled"`

	// WiFiOnlyThresholdBytes overrides WiFiOnlyThresholdBytes for
	// attachments above this size; 0 means "use the default".
	WiFiOnlyThresholdBytes int64 `json:"wifiOnlyThresholdBytes"`

	// AutoSyncIntervalSeconds is the SyncManager reconciliation tick
	// period.
	AutoSyncIntervalSeconds int `json:"autoSyncIntervalSeconds"`

	UpdatedAt int64 `json:"updatedAt"`
}

// TableName returns the name of the database table associated with
// SyncSettings.
func (SyncSettings) TableName() string {
	return "sync_settings"
}

// DefaultSyncSettings returns the built-in defaults applied before any
// user overrides are loaded.
func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		Enabled:                 true,
		WiFiOnlyThresholdBytes:  WiFiOnlyThresholdBytes,
		AutoSyncIntervalSeconds: 60,
	}
}
