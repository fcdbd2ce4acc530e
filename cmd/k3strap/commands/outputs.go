package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunnydmess/k3strap/cmd/k3strap/handlers"
)

// Outputs returns the command that prints the published pipeline outputs.
func Outputs() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print the outputs of the last successful apply",
		Long: `Print the named values the pipeline published on its last
successful apply: the resolved k3s version, user and host, the created
namespaces, the kubeconfig path, and the command for retrieving the
generated admin credential.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Outputs(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	return cmd
}
