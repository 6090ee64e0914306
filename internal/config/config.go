// Package config declares the node configuration: a single Config
// struct with mapstructure tags per field, nested per-concern
// sub-structs, and a setDefaults + Load + Validate pipeline built on
// viper.
package config

import (
	"encoding/hex"
	"time"
)

// Config is the complete ilpnoded configuration.
type Config struct {
	Node       NodeConfig       `mapstructure:"node"`
	AdminAPI   AdminAPIConfig   `mapstructure:"admin_api"`
	RPCBridge  RPCBridgeConfig  `mapstructure:"rpc_bridge"`
	CCP        CCPConfig        `mapstructure:"ccp"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Store      StoreConfig      `mapstructure:"store"`

	configPath string
}

// NodeConfig carries this connector's own identity.
type NodeConfig struct {
	// Address is this node's ILP address, e.g. "g.connector".
	Address string `mapstructure:"address"`
	// SecretHex is the hex-encoded secret used to derive STREAM
	// receiver tags and shared secrets.
	SecretHex string `mapstructure:"secret_hex"`
}

// AdminAPIConfig configures the REST admin surface.
type AdminAPIConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
	// AuthToken is the admin bearer token. Empty disables auth, for
	// development nodes whose listener is already access-controlled.
	AuthToken string `mapstructure:"auth_token"`
}

// RPCBridgeConfig configures the gRPC settlement-notification bridge.
type RPCBridgeConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ListenAddress string `mapstructure:"listen_address"`
}

// CCPConfig configures route broadcasting.
type CCPConfig struct {
	BroadcastInterval time.Duration `mapstructure:"broadcast_interval"`
}

// SettlementConfig configures the outbound settlement-engine client.
// DefaultURL is used when an account has neither its own
// SettlementEngineURL nor an entry in URLByAsset.
type SettlementConfig struct {
	DefaultURL  string            `mapstructure:"default_url"`
	URLByAsset  map[string]string `mapstructure:"url_by_asset"`
	HTTPTimeout time.Duration     `mapstructure:"http_timeout"`
}

// StoreConfig selects the backing store. Only "memory" is implemented
// by this repository; the field exists so a future backend can be
// selected without an API change.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

// GetConfigPath returns the file this configuration was loaded from,
// or "" if it was built in-process (e.g. in tests).
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Secret returns the decoded node secret, falling back to the raw
// node address when no secret_hex is configured, so a node can run
// off defaults alone in development.
func (c *Config) Secret() []byte {
	if c.Node.SecretHex == "" {
		return []byte(c.Node.Address)
	}
	b, _ := hex.DecodeString(c.Node.SecretHex)
	return b
}
