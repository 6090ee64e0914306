package config

import "github.com/spf13/viper"

// setDefaults sets every default value before the config file and
// environment overrides are applied.
func setDefaults(v *viper.Viper) {
	v.SetDefault("node.address", "g.connector")

	v.SetDefault("admin_api.listen_address", "127.0.0.1:7768")
	v.SetDefault("admin_api.auth_token", "")

	v.SetDefault("rpc_bridge.enabled", false)
	v.SetDefault("rpc_bridge.listen_address", "127.0.0.1:7769")

	v.SetDefault("ccp.broadcast_interval", "30s")

	v.SetDefault("settlement.http_timeout", "10s")

	v.SetDefault("store.backend", "memory")
}
