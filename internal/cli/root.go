// Package cli wires the cobra command tree for ilpnoded.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd is the base command when ilpnoded is invoked with no
// subcommand: it runs the server directly.
var rootCmd = &cobra.Command{
	Use:     "ilpnoded",
	Short:   "ilpnoded - ILPv4 connector core",
	Long:    `ilpnoded runs an ILPv4 connector core: packet validation, routing, balances, exchange rates, rate limiting, CCP route broadcasting, and settlement dispatch.`,
	Version: "0.1.0-dev",
	Run:     runServer,
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (TOML)")
}
