package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunnydmess/k3strap/cmd/k3strap/handlers"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "k3strap.yaml")
//	--force: Overwrite an existing file without asking
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a k3strap configuration file.

This command guides you through configuring the cluster step by step:

  - Cluster name
  - k3s version
  - GitOps repository path and deploy key (optionally generated)
  - Workload namespaces
  - State backend (local file or S3-compatible bucket)

Use --full to output the complete YAML with all configuration options
(useful for manual editing). By default, a minimal YAML is generated
with only essential values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "k3strap.yaml", "Output file path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing file without asking")
	cmd.Flags().BoolVarP(&opts.FullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
