package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sunnydmess/k3strap/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only essential non-default values are written.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		yamlBytes, err = yaml.Marshal(cfg)
	} else {
		// Create minimal config with only essential fields
		minCfg := buildMinimalConfig(cfg)
		yamlBytes, err = yaml.Marshal(minCfg)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// MinimalConfig represents the minimal configuration for YAML output.
// Only contains fields that are essential or explicitly set by the user.
type MinimalConfig struct {
	ClusterName string            `yaml:"cluster_name"`
	K3s         MinimalK3s        `yaml:"k3s"`
	GitOps      MinimalGitOps     `yaml:"gitops"`
	Workloads   *MinimalWorkloads `yaml:"workloads,omitempty"`
	State       *MinimalState     `yaml:"state,omitempty"`
}

// MinimalK3s contains essential runtime settings.
type MinimalK3s struct {
	Version string `yaml:"version"`
}

// MinimalGitOps contains essential GitOps settings.
type MinimalGitOps struct {
	Namespace     string `yaml:"namespace,omitempty"`
	Path          string `yaml:"path"`
	DeployKeyPath string `yaml:"deploy_key_path,omitempty"`
}

// MinimalWorkloads contains workload namespaces if customized.
type MinimalWorkloads struct {
	Namespaces []string `yaml:"namespaces"`
}

// MinimalState contains state settings if not the local default.
type MinimalState struct {
	Backend string     `yaml:"backend"`
	S3      *MinimalS3 `yaml:"s3,omitempty"`
}

// MinimalS3 contains the remote state backend settings.
type MinimalS3 struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
}

// buildMinimalConfig creates a minimal config from the full config.
func buildMinimalConfig(cfg *config.Config) *MinimalConfig {
	minCfg := &MinimalConfig{
		ClusterName: cfg.ClusterName,
		K3s: MinimalK3s{
			Version: cfg.K3s.Version,
		},
		GitOps: MinimalGitOps{
			Path:          cfg.GitOps.Path,
			DeployKeyPath: cfg.GitOps.DeployKeyPath,
		},
	}

	// GitOps namespace - only if customized
	if cfg.GitOps.Namespace != "" && cfg.GitOps.Namespace != "flux-system" {
		minCfg.GitOps.Namespace = cfg.GitOps.Namespace
	}

	// Workload namespaces - only if customized
	if namespaces := cfg.Workloads.Namespaces; len(namespaces) > 0 && !isDefaultNamespaces(namespaces) {
		minCfg.Workloads = &MinimalWorkloads{Namespaces: namespaces}
	}

	// State - only if not the local default
	if cfg.State.Backend != "" && cfg.State.Backend != "local" {
		state := &MinimalState{Backend: cfg.State.Backend}
		if cfg.State.Backend == "s3" {
			state.S3 = &MinimalS3{
				Endpoint: cfg.State.S3.Endpoint,
				Region:   cfg.State.S3.Region,
				Bucket:   cfg.State.S3.Bucket,
			}
		}
		minCfg.State = state
	}

	return minCfg
}

// isDefaultNamespaces reports whether the namespace list matches the default.
func isDefaultNamespaces(namespaces []string) bool {
	return len(namespaces) == 1 && namespaces[0] == "media"
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full flag for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# k3strap cluster configuration
# Generated by: k3strap init
# Generated at: %s
# Output mode: %s
# Docs: https://github.com/sunnydmess/k3strap%s
#
# Usage:
#   k3strap apply -c %s
`, time.Now().Format(time.RFC3339), mode, note, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
