// Package main is the entry point for the fipctl CLI.
//
// fipctl reconciles Hetzner Cloud floating IPs against a declared state:
// allocated from a pool, associated with a server, disassociated, or
// released. Every run reads the current state from the API, applies the
// minimal set of calls and reports whether anything changed.
//
// Commands: reconcile, list, version.
//
// For detailed usage information, run:
//
//	fipctl --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/fipctl/cmd/fipctl/commands"
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
