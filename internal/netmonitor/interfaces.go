// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package netmonitor abstracts the platform connectivity signal the
// AssetPipeline's WiFi gate and the SyncQueue's online-drain trigger both
// depend on.
package netmonitor

// ConnectionType is the coarse network class the platform reports.
type ConnectionType int

const (
	ConnectionUnknown ConnectionType = iota
	ConnectionOffline
	ConnectionCellular
	ConnectionWiFi
)

// Monitor is the sole implementor of the platform connectivity contract.
type Monitor interface {
	// Current returns the connection type as of the last observation.
	Current() ConnectionType

	// IsOnline reports whether Current() is anything but
	// ConnectionOffline or ConnectionUnknown.
	IsOnline() bool

	// IsWiFi reports whether Current() is ConnectionWiFi.
	IsWiFi() bool

	// OnChange registers callback to fire whenever Current() changes.
	// Returns an unsubscribe function.
	OnChange(callback func(ConnectionType)) (unsubscribe func())
}
