package config

import (
	"encoding/hex"
	"fmt"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
)

// Validate performs structural checks that viper's Unmarshal cannot
// express.
func Validate(cfg *Config) error {
	if err := validateNode(&cfg.Node); err != nil {
		return fmt.Errorf("node config validation failed: %w", err)
	}
	if err := validateStore(&cfg.Store); err != nil {
		return fmt.Errorf("store config validation failed: %w", err)
	}
	if cfg.AdminAPI.ListenAddress == "" {
		return fmt.Errorf("admin_api.listen_address must not be empty")
	}
	if cfg.RPCBridge.Enabled && cfg.RPCBridge.ListenAddress == "" {
		return fmt.Errorf("rpc_bridge.listen_address must not be empty when rpc_bridge.enabled is true")
	}
	if cfg.CCP.BroadcastInterval <= 0 {
		return fmt.Errorf("ccp.broadcast_interval must be positive")
	}
	return nil
}

func validateNode(n *NodeConfig) error {
	if n.Address == "" {
		return fmt.Errorf("node.address must not be empty")
	}
	if _, err := ilpaddr.Parse(n.Address); err != nil {
		return fmt.Errorf("node.address is not a valid ILP address: %w", err)
	}
	if n.SecretHex != "" {
		if _, err := hex.DecodeString(n.SecretHex); err != nil {
			return fmt.Errorf("node.secret_hex is not valid hex: %w", err)
		}
	}
	return nil
}

func validateStore(s *StoreConfig) error {
	switch s.Backend {
	case "", "memory":
		return nil
	default:
		return fmt.Errorf("unsupported store backend %q: only \"memory\" is implemented", s.Backend)
	}
}
