package config

import "fmt"

// ValidAccessModes are the persistent volume access modes the API accepts.
var ValidAccessModes = map[string]bool{
	"ReadWriteOnce":    true,
	"ReadOnlyMany":     true,
	"ReadWriteMany":    true,
	"ReadWriteOncePod": true,
}

// ValidStateBackends are the supported state stores.
var ValidStateBackends = map[string]bool{
	"local": true,
	"s3":    true,
}

// ApplyDefaults fills in everything the file may omit. Nil slices mean
// "not configured" and receive defaults; explicitly empty lists stay empty.
func (c *Config) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = 2
	}

	if c.K3s.Version == "" {
		c.K3s.Version = DefaultK3sVersion
	}

	if c.GitOps.Namespace == "" {
		c.GitOps.Namespace = "flux-system"
	}

	if c.Workloads.Namespaces == nil {
		c.Workloads.Namespaces = []string{"media"}
	}
	if c.Workloads.Volumes == nil {
		c.Workloads.Volumes = []Volume{
			{
				Name:         "jellyfin-config-pv",
				Capacity:     "10Gi",
				AccessModes:  []string{"ReadWriteOnce"},
				HostPath:     "/data/jellyfin/config",
				StorageClass: "local-storage",
			},
			{
				Name:         "jellyfin-media-pv",
				Capacity:     "500Gi",
				AccessModes:  []string{"ReadWriteMany"},
				HostPath:     "/data/jellyfin/media",
				StorageClass: "local-storage",
			},
		}
	}

	if c.State.Backend == "" {
		c.State.Backend = "local"
	}
	if c.State.Backend == "s3" {
		if c.State.S3.AccessKeyEnv == "" {
			c.State.S3.AccessKeyEnv = "K3STRAP_STATE_ACCESS_KEY"
		}
		if c.State.S3.SecretKeyEnv == "" {
			c.State.S3.SecretKeyEnv = "K3STRAP_STATE_SECRET_KEY"
		}
	}

	if c.Waits.NodeReady.Attempts == 0 {
		c.Waits.NodeReady.Attempts = DefaultNodeReadyBudget.Attempts
	}
	if c.Waits.NodeReady.Interval == 0 {
		c.Waits.NodeReady.Interval = DefaultNodeReadyBudget.Interval
	}
	if c.Waits.CRDs.Attempts == 0 {
		c.Waits.CRDs.Attempts = DefaultCRDsBudget.Attempts
	}
	if c.Waits.CRDs.Interval == 0 {
		c.Waits.CRDs.Interval = DefaultCRDsBudget.Interval
	}
	if c.Waits.Controllers.Attempts == 0 {
		c.Waits.Controllers.Attempts = DefaultControllersBudget.Attempts
	}
	if c.Waits.Controllers.Interval == 0 {
		c.Waits.Controllers.Interval = DefaultControllersBudget.Interval
	}
}

// Validate checks the configuration for common errors and returns a
// detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if c.K3s.Version == "" {
		return fmt.Errorf("k3s.version is required")
	}

	if c.GitOps.Namespace == "" {
		return fmt.Errorf("gitops.namespace is required")
	}

	if err := c.validateWorkloads(); err != nil {
		return fmt.Errorf("workload validation failed: %w", err)
	}

	if err := c.validateState(); err != nil {
		return fmt.Errorf("state validation failed: %w", err)
	}

	if c.Waits.NodeReady.Attempts < 1 || c.Waits.CRDs.Attempts < 1 || c.Waits.Controllers.Attempts < 1 {
		return fmt.Errorf("wait budgets need at least one attempt")
	}

	return nil
}

// validateWorkloads validates namespaces and volumes.
func (c *Config) validateWorkloads() error {
	for i, ns := range c.Workloads.Namespaces {
		if ns == "" {
			return fmt.Errorf("workload namespace %d: name is required", i)
		}
	}

	for i, vol := range c.Workloads.Volumes {
		if vol.Name == "" {
			return fmt.Errorf("volume %d: name is required", i)
		}
		if vol.Capacity == "" {
			return fmt.Errorf("volume %s: capacity is required", vol.Name)
		}
		if vol.HostPath == "" {
			return fmt.Errorf("volume %s: host_path is required", vol.Name)
		}
		if len(vol.AccessModes) == 0 {
			return fmt.Errorf("volume %s: at least one access mode is required", vol.Name)
		}
		for _, mode := range vol.AccessModes {
			if !ValidAccessModes[mode] {
				return fmt.Errorf("volume %s has invalid access mode %q: must be one of %v",
					vol.Name, mode, getMapKeys(ValidAccessModes))
			}
		}
	}

	return nil
}

// validateState validates the state backend selection.
func (c *Config) validateState() error {
	if !ValidStateBackends[c.State.Backend] {
		return fmt.Errorf("invalid state backend %q: must be one of %v",
			c.State.Backend, getMapKeys(ValidStateBackends))
	}

	if c.State.Backend == "s3" {
		if c.State.S3.Bucket == "" {
			return fmt.Errorf("state.s3.bucket is required for the s3 backend")
		}
		if c.State.S3.Region == "" {
			return fmt.Errorf("state.s3.region is required for the s3 backend")
		}
	}

	return nil
}

// getMapKeys returns the keys of a map as a slice for error messages.
func getMapKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
