package wizard

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

// clusterNameRegex validates cluster name format: 1-32 lowercase alphanumeric with hyphens.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// runClusterIdentityGroup prompts for the cluster name.
func runClusterIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Name").
				Description("1-32 lowercase alphanumeric characters or hyphens").
				Placeholder("homelab").
				Value(&result.ClusterName).
				Validate(validateClusterName),
		).Title("Cluster Identity"),
	).RunWithContext(ctx)
}

// runRuntimeGroup prompts for the k3s version.
func runRuntimeGroup(ctx context.Context, result *WizardResult) error {
	result.K3sVersion = K3sVersions[0].Value // default

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("k3s Version").
				Description("Kubernetes runtime installed on this machine").
				Options(VersionsToOptions(K3sVersions)...).
				Value(&result.K3sVersion),
		).Title("Runtime"),
	).RunWithContext(ctx)
}

// runGitOpsGroup prompts for the repository path and deploy key.
func runGitOpsGroup(ctx context.Context, result *WizardResult) error {
	result.GitOpsPath = "./gitops" // default

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitOps Repository Path").
				Description("Local checkout containing the sync manifests").
				Value(&result.GitOpsPath).
				Validate(validatePath),
			huh.NewInput().
				Title("Deploy Key Path (Optional)").
				Description("SSH private key for repository access. Leave empty to use ~/.ssh/id_ed25519.").
				Placeholder("~/.ssh/id_ed25519 (or leave empty)").
				Value(&result.DeployKeyPath),
		).Title("GitOps"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	// Only offer to generate a key when no explicit key was given
	if result.DeployKeyPath != "" {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Generate Deploy Key?").
				Description("Create a new ed25519 key pair if none exists at the default path").
				Value(&result.GenerateKey),
		).Title("Deploy Key"),
	).RunWithContext(ctx)
}

// runWorkloadsGroup prompts for workload namespaces (optional).
func runWorkloadsGroup(ctx context.Context, result *WizardResult) error {
	var namespacesInput string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workload Namespaces (Optional)").
				Description("Comma-separated namespaces created after bootstrap. Leave empty for the default.").
				Placeholder("media (or leave empty)").
				Value(&namespacesInput),
		).Title("Workloads"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	result.Namespaces = parseNamespaces(namespacesInput)
	return nil
}

// runStateGroup prompts for the state backend.
func runStateGroup(ctx context.Context, result *WizardResult) error {
	result.StateBackend = "local" // default

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("State Backend").
				Description("Where completion fingerprints are stored between runs").
				Options(StateBackendOptions...).
				Value(&result.StateBackend),
		).Title("State"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	if result.StateBackend != "s3" {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bucket").
				Description("Bucket holding the state document").
				Value(&result.S3Bucket).
				Validate(validateBucket),
			huh.NewInput().
				Title("Region").
				Placeholder("us-east-1").
				Value(&result.S3Region),
			huh.NewInput().
				Title("Endpoint (Optional)").
				Description("For S3-compatible storage outside AWS").
				Placeholder("https://fsn1.your-objectstorage.com").
				Value(&result.S3Endpoint),
		).Title("S3 State"),
	).RunWithContext(ctx)
}

// validateClusterName validates the cluster name format.
func validateClusterName(s string) error {
	if s == "" {
		return errClusterNameRequired
	}
	if !clusterNameRegex.MatchString(s) {
		return errClusterNameInvalid
	}
	return nil
}

// validatePath rejects blank paths.
func validatePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errPathRequired
	}
	return nil
}

// validateBucket rejects blank bucket names.
func validateBucket(s string) error {
	if strings.TrimSpace(s) == "" {
		return errBucketRequired
	}
	return nil
}

// parseNamespaces parses a comma-separated list of namespace names.
func parseNamespaces(input string) []string {
	parts := strings.Split(input, ",")
	namespaces := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			namespaces = append(namespaces, trimmed)
		}
	}
	return namespaces
}
