package wizard

import "github.com/sunnydmess/k3strap/internal/config"

// BuildConfig creates a Config struct from the wizard result. Defaults are
// applied so the full-output YAML is explicit and self-documenting.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		ClusterName: result.ClusterName,
		K3s: config.K3s{
			Version: result.K3sVersion,
		},
		GitOps: config.GitOps{
			Path:          result.GitOpsPath,
			DeployKeyPath: result.DeployKeyPath,
		},
		State: config.State{
			Backend: result.StateBackend,
		},
	}

	// Only set namespaces if provided (nil keeps the default)
	if len(result.Namespaces) > 0 {
		cfg.Workloads.Namespaces = result.Namespaces
	}

	if result.StateBackend == "s3" {
		cfg.State.S3 = config.S3State{
			Bucket:   result.S3Bucket,
			Region:   result.S3Region,
			Endpoint: result.S3Endpoint,
		}
	}

	cfg.ApplyDefaults()

	return cfg
}
