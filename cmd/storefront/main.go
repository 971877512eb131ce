// Command storefront runs the SKYE storefront CLI and HTTP API.
package main

import (
	"os"

	"github.com/roach88/storefront/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
