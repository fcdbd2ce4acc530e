package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Cluster Identity
	ClusterName string

	// Runtime
	K3sVersion string

	// GitOps bootstrap
	GitOpsPath    string
	DeployKeyPath string

	// GenerateKey is set when the user wants a fresh deploy key created at
	// the default path instead of pointing at an existing one.
	GenerateKey bool

	// Workloads (optional - if empty, defaults apply)
	Namespaces []string

	// State backend
	StateBackend string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runClusterIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster identity: %w", err)
	}

	if err := runRuntimeGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}

	if err := runGitOpsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("gitops: %w", err)
	}

	if err := runWorkloadsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("workloads: %w", err)
	}

	if err := runStateGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}

	return result, nil
}
