// Package main is the entry point for the k3strap CLI.
//
// k3strap provisions a single-node k3s cluster on the local host and
// bootstraps a GitOps control plane onto it. One invocation plans the
// dependency-ordered pipeline, executes whatever changed since the last
// run, and exits; day-2 configuration belongs to the GitOps repository.
//
// Commands: init, apply, plan, outputs, destroy.
//
// For detailed usage information, run:
//
//	k3strap --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sunnydmess/k3strap/cmd/k3strap/commands"
	"github.com/sunnydmess/k3strap/internal/config"
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

		// Configuration errors never ran anything; give operators a
		// distinct exit code so wrappers can tell them apart.
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
