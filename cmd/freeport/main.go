// Package main is the entry point for the freeport CLI.
//
// The binary finds unused TCP ports on the local machine. All functionality
// lives in the internal/cli package, which defines cobra commands; this file
// only injects build-time version information and runs the root command.
package main

import (
	"github.com/xuanhoa88/get-free-port/internal/cli"
)

// version, commit, and date are set at build time via ldflags. During
// development they default to "dev", "none", and "unknown".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
