// Package main is the entry point for the loadfleet CLI.
//
// loadfleet plans and provisions distributed load-testing clusters (one
// locust master and its workers) on Hetzner Cloud. The test script is
// published to S3-compatible object storage and fetched by every node on
// first boot.
//
// Commands: init, plan, publish, apply, version.
//
// For detailed usage information, run:
//
//	loadfleet --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/loadfleet/cmd/loadfleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
