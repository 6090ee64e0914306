package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "g.connector", cfg.Node.Address)
	require.Equal(t, "127.0.0.1:7768", cfg.AdminAPI.ListenAddress)
	require.Equal(t, "memory", cfg.Store.Backend)
	require.NotEmpty(t, cfg.Secret())
}

func TestLoadRejectsBadAddress(t *testing.T) {
	// setDefaults supplies a valid node.address; corrupt it directly.
	cfg := &Config{Node: NodeConfig{Address: "not a valid address"}, AdminAPI: AdminAPIConfig{ListenAddress: "x"}, CCP: CCPConfig{BroadcastInterval: 1}}
	require.Error(t, Validate(cfg))
}

func TestLoadRejectsUnsupportedStoreBackend(t *testing.T) {
	cfg := &Config{
		Node:     NodeConfig{Address: "g.connector"},
		AdminAPI: AdminAPIConfig{ListenAddress: "127.0.0.1:0"},
		CCP:      CCPConfig{BroadcastInterval: 1},
		Store:    StoreConfig{Backend: "postgres"},
	}
	require.Error(t, Validate(cfg))
}
