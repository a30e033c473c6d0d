// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package netmonitor

import "sync"

// manualMonitor is a [Monitor] driven entirely by explicit [SetConnection]
// calls. The platform-specific monitors (Reachability, ConnectivityManager)
// bind to this same interface but are out of scope for this module; tests
// and the desktop build use this one directly.
type manualMonitor struct {
	mu        sync.Mutex
	current   ConnectionType
	observers map[int]func(ConnectionType)
	nextID    int
}

func (m *manualMonitor) Current() ConnectionType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *manualMonitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != ConnectionOffline && m.current != ConnectionUnknown
}

func (m *manualMonitor) IsWiFi() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == ConnectionWiFi
}

func (m *manualMonitor) OnChange(callback func(ConnectionType)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.observers[id] = callback
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.observers, id)
	}
}

// SetConnection updates the current connection type and notifies observers
// if it changed.
func (m *manualMonitor) SetConnection(t ConnectionType) {
	m.mu.Lock()
	if m.current == t {
		m.mu.Unlock()
		return
	}
	m.current = t
	observers := make([]func(ConnectionType), 0, len(m.observers))
	for _, cb := range m.observers {
		observers = append(observers, cb)
	}
	m.mu.Unlock()

	for _, cb := range observers {
		cb(t)
	}
}

// ManualMonitor is a [Monitor] that also exposes SetConnection for
// callers that need to drive it (desktop builds, tests).
type ManualMonitor interface {
	Monitor
	SetConnection(t ConnectionType)
}

var _ ManualMonitor = (*manualMonitor)(nil)

// NewManualMonitor returns a [ManualMonitor] whose connection starts as
// ConnectionUnknown until SetConnection is called.
func NewManualMonitor() ManualMonitor {
	return &manualMonitor{observers: make(map[int]func(ConnectionType))}
}
