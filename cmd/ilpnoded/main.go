// Command ilpnoded runs an ILPv4 connector core.
package main

import "github.com/LeJamon/ilpconnectord/internal/cli"

func main() {
	cli.Execute()
}
