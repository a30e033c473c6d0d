package netmonitor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManualMonitor_DefaultsOffline(t *testing.T) {
	m := NewManualMonitor()
	require.False(t, m.IsOnline())
	require.False(t, m.IsWiFi())
}

func TestManualMonitor_SetConnection_UpdatesState(t *testing.T) {
	m := NewManualMonitor()
	m.SetConnection(ConnectionWiFi)
	require.True(t, m.IsOnline())
	require.True(t, m.IsWiFi())

	m.SetConnection(ConnectionCellular)
	require.True(t, m.IsOnline())
	require.False(t, m.IsWiFi())

	m.SetConnection(ConnectionOffline)
	require.False(t, m.IsOnline())
}

func TestManualMonitor_OnChange_FiresOnTransition(t *testing.T) {
	m := NewManualMonitor()
	var seen []ConnectionType
	unsubscribe := m.OnChange(func(t ConnectionType) { seen = append(seen, t) })
	defer unsubscribe()

	m.SetConnection(ConnectionCellular)
	m.SetConnection(ConnectionCellular) // no-op, same value
	m.SetConnection(ConnectionWiFi)

	require.Equal(t, []ConnectionType{ConnectionCellular, ConnectionWiFi}, seen)
}
