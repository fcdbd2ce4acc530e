package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunnydmess/k3strap/cmd/k3strap/handlers"
)

// Apply returns the command that provisions the cluster.
//
// Optional flags:
//
//	--config, -c: Path to configuration file (default: auto-detect k3strap.yaml)
//	--dry-run: Print the pipeline without executing it
//	--no-tui: Disable the interactive progress display
//	--workers: Bound on concurrently running nodes
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the cluster",
		Long: `Create or update the single-node cluster on this host.

This command installs the k3s runtime, writes local access credentials,
installs the GitOps controllers, and applies the repository's entry
kustomization. Every step is idempotent: re-running apply only executes
steps whose inputs changed since the last successful run.

If no config file is specified, it looks for k3strap.yaml in the current
directory and then in ~/.k3strap/. Use 'k3strap init' to create one.

Examples:
  # Provision using k3strap.yaml in the current directory
  k3strap apply

  # Provision using a specific config file
  k3strap apply -c homelab.yaml

  # Show what would run without executing anything
  k3strap apply --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the pipeline without executing it")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable the interactive progress display")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Bound on concurrently running nodes (default: from config)")

	return cmd
}
