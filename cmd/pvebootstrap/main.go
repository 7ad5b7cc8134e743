// Package main is the entry point for the pvebootstrap CLI.
//
// pvebootstrap bootstraps API credentials on a Proxmox VE node: it
// ensures a dedicated automation user exists, issues an API token and
// grants the token a role on the configured ACL paths, then prints the
// resulting credential bundle ready for use by automation tooling.
//
// Commands: init, provision, version, completion.
//
// For detailed usage information, run:
//
//	pvebootstrap --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/pvebootstrap/cmd/pvebootstrap/commands"
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
