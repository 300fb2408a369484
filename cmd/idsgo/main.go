package main

import (
	"fmt"
	"os"

	"github.com/roach88/idsgo/internal/cli"
)

// Version information - will be set at build time
var Version = "dev"

func main() {
	cli.Version = Version

	rootCmd := cli.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "idsgo:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
