// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the k3strap CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "k3strap",
		Short: "Provision a single-node k3s cluster with a GitOps control plane",
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Outputs())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
