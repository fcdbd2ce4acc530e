package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunnydmess/k3strap/cmd/k3strap/handlers"
)

// Destroy returns the command that tears the cluster down.
//
// Teardown walks the pipeline in reverse order and runs every delete
// action: GitOps objects are removed, the credential file is deleted, and
// the runtime is uninstalled. Teardown is best-effort; individual failures
// are reported and the walk continues.
func Destroy() *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear the cluster down",
		Long: `Tear the cluster down in reverse dependency order.

This removes the GitOps-managed objects, the controller manifests, the
local kubeconfig, and finally uninstalls the k3s runtime. Individual
failures (an already-absent resource, an unreachable API) are reported
but never stop the remaining teardown.

Example:
  k3strap destroy -c homelab.yaml --yes

WARNING: This operation removes the cluster and everything running on it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}
