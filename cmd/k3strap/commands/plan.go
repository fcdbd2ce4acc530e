package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunnydmess/k3strap/cmd/k3strap/handlers"
)

// Plan returns the command that prints the pipeline without executing it.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the pipeline and what the next apply would run",
		Long: `Show the dependency-ordered pipeline with a prediction per node.

Predictions compare each node's current trigger inputs against the
fingerprints stored from the last successful apply: nodes whose inputs
changed (or that never ran) are listed as "run", unchanged nodes as
"skip". Probes and readiness waits always run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	return cmd
}
