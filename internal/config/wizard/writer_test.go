package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnydmess/k3strap/internal/config"
)

func TestWriteConfig_MinimalOutput(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "k3strap.yaml")

	cfg := &config.Config{
		ClusterName: "test-cluster",
		K3s: config.K3s{
			Version: "v1.28.5+k3s1",
		},
		GitOps: config.GitOps{
			Namespace: "flux-system",
			Path:      "./gitops",
		},
		Workloads: config.Workloads{
			Namespaces: []string{"media"},
		},
		State: config.State{
			Backend: "local",
		},
	}

	err := WriteConfig(cfg, outputPath, false)
	require.NoError(t, err)

	// Read the file
	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	// Check header
	assert.Contains(t, string(content), "# k3strap cluster configuration")
	assert.Contains(t, string(content), "Output mode: minimal")

	// Check cluster name
	assert.Contains(t, string(content), "cluster_name: test-cluster")

	// Default sections are omitted in minimal mode
	assert.NotContains(t, string(content), "workloads:")
	assert.NotContains(t, string(content), "state:")
}

func TestWriteConfig_FullOutput(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "k3strap.yaml")

	cfg := &config.Config{
		ClusterName: "test-cluster",
		K3s: config.K3s{
			Version: "v1.28.5+k3s1",
		},
		GitOps: config.GitOps{
			Path: "./gitops",
		},
	}
	cfg.ApplyDefaults()

	err := WriteConfig(cfg, outputPath, true)
	require.NoError(t, err)

	// Read the file
	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	// Check header
	assert.Contains(t, string(content), "Output mode: full")
	assert.NotContains(t, string(content), "Note: This is a minimal config")

	// Full mode writes the defaulted sections too
	assert.Contains(t, string(content), "workloads:")
	assert.Contains(t, string(content), "jellyfin-config-pv")
	assert.Contains(t, string(content), "waits:")
}

func TestWriteConfig_FullOutputReadableDurations(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "k3strap.yaml")

	cfg := &config.Config{
		ClusterName: "test-cluster",
		GitOps: config.GitOps{
			Path: "./gitops",
		},
	}
	cfg.ApplyDefaults()

	err := WriteConfig(cfg, outputPath, true)
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	// Wait intervals come out as duration strings, not nanosecond integers
	assert.Contains(t, string(content), "interval: 2s")
	assert.Contains(t, string(content), "interval: 5s")
	assert.NotContains(t, string(content), "2000000000")
}

func TestWriteConfig_WithCustomNamespaces(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "k3strap.yaml")

	cfg := &config.Config{
		ClusterName: "test-cluster",
		K3s: config.K3s{
			Version: "v1.28.5+k3s1",
		},
		GitOps: config.GitOps{
			Path: "./gitops",
		},
		Workloads: config.Workloads{
			Namespaces: []string{"media", "downloads"},
		},
	}

	err := WriteConfig(cfg, outputPath, false)
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	assert.Contains(t, string(content), "workloads:")
	assert.Contains(t, string(content), "downloads")
}

func TestWriteConfig_MinimalRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "k3strap.yaml")

	cfg := BuildConfig(&WizardResult{
		ClusterName:  "homelab",
		K3sVersion:   "v1.29.0+k3s1",
		GitOpsPath:   "./gitops",
		Namespaces:   []string{"media", "downloads"},
		StateBackend: "s3",
		S3Bucket:     "homelab-state",
		S3Region:     "eu-central-1",
	})

	err := WriteConfig(cfg, outputPath, false)
	require.NoError(t, err)

	// The generated file loads back through the normal config path
	loaded, err := config.LoadFile(outputPath)
	require.NoError(t, err)

	assert.Equal(t, "homelab", loaded.ClusterName)
	assert.Equal(t, "v1.29.0+k3s1", loaded.K3s.Version)
	assert.Equal(t, []string{"media", "downloads"}, loaded.Workloads.Namespaces)
	assert.Equal(t, "s3", loaded.State.Backend)
	assert.Equal(t, "homelab-state", loaded.State.S3.Bucket)
}

func TestWriteConfig_FullRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "k3strap.yaml")

	cfg := BuildConfig(&WizardResult{
		ClusterName:  "homelab",
		K3sVersion:   "v1.28.5+k3s1",
		GitOpsPath:   "./gitops",
		StateBackend: "local",
	})

	err := WriteConfig(cfg, outputPath, true)
	require.NoError(t, err)

	loaded, err := config.LoadFile(outputPath)
	require.NoError(t, err)

	assert.Equal(t, cfg.ClusterName, loaded.ClusterName)
	assert.Equal(t, cfg.Workers, loaded.Workers)
	assert.Equal(t, cfg.Workloads.Volumes, loaded.Workloads.Volumes)
	assert.Equal(t, cfg.Waits, loaded.Waits)
}

func TestWriteConfig_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "k3strap.yaml")

	cfg := &config.Config{
		ClusterName: "test-cluster",
		K3s: config.K3s{
			Version: "v1.28.5+k3s1",
		},
		GitOps: config.GitOps{
			Path: "./gitops",
		},
	}

	err := WriteConfig(cfg, outputPath, false)
	require.NoError(t, err)

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteConfig_InvalidPath(t *testing.T) {
	cfg := &config.Config{
		ClusterName: "test-cluster",
	}

	err := WriteConfig(cfg, "/nonexistent/dir/k3strap.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")
}

func TestBuildMinimalConfig(t *testing.T) {
	cfg := &config.Config{
		ClusterName: "test-cluster",
		K3s: config.K3s{
			Version: "v1.29.0+k3s1",
		},
		GitOps: config.GitOps{
			Namespace:     "flux-system",
			Path:          "./gitops",
			DeployKeyPath: "/home/sunny/.ssh/deploy_key",
		},
		Workloads: config.Workloads{
			Namespaces: []string{"media", "downloads"},
		},
		State: config.State{
			Backend: "s3",
			S3: config.S3State{
				Endpoint: "https://fsn1.your-objectstorage.com",
				Region:   "eu-central-1",
				Bucket:   "homelab-state",
			},
		},
	}

	minCfg := buildMinimalConfig(cfg)

	assert.Equal(t, "test-cluster", minCfg.ClusterName)
	assert.Equal(t, "v1.29.0+k3s1", minCfg.K3s.Version)
	assert.Equal(t, "./gitops", minCfg.GitOps.Path)
	assert.Equal(t, "/home/sunny/.ssh/deploy_key", minCfg.GitOps.DeployKeyPath)

	require.NotNil(t, minCfg.Workloads)
	assert.Equal(t, []string{"media", "downloads"}, minCfg.Workloads.Namespaces)

	require.NotNil(t, minCfg.State)
	assert.Equal(t, "s3", minCfg.State.Backend)
	require.NotNil(t, minCfg.State.S3)
	assert.Equal(t, "homelab-state", minCfg.State.S3.Bucket)
	assert.Equal(t, "eu-central-1", minCfg.State.S3.Region)
	assert.Equal(t, "https://fsn1.your-objectstorage.com", minCfg.State.S3.Endpoint)
}

func TestBuildMinimalConfig_DefaultNamespacesOmitted(t *testing.T) {
	cfg := &config.Config{
		ClusterName: "test-cluster",
		Workloads: config.Workloads{
			Namespaces: []string{"media"}, // Default, should be omitted
		},
	}

	minCfg := buildMinimalConfig(cfg)
	assert.Nil(t, minCfg.Workloads)
}

func TestBuildMinimalConfig_LocalBackendOmitted(t *testing.T) {
	cfg := &config.Config{
		ClusterName: "test-cluster",
		State: config.State{
			Backend: "local", // Default, should be omitted
		},
	}

	minCfg := buildMinimalConfig(cfg)
	assert.Nil(t, minCfg.State)
}

func TestBuildMinimalConfig_DefaultGitOpsNamespaceOmitted(t *testing.T) {
	cfg := &config.Config{
		ClusterName: "test-cluster",
		GitOps: config.GitOps{
			Namespace: "flux-system", // Default, should be omitted
			Path:      "./gitops",
		},
	}

	minCfg := buildMinimalConfig(cfg)
	assert.Empty(t, minCfg.GitOps.Namespace)
	assert.Equal(t, "./gitops", minCfg.GitOps.Path)
}

func TestBuildMinimalConfig_CustomGitOpsNamespaceKept(t *testing.T) {
	cfg := &config.Config{
		ClusterName: "test-cluster",
		GitOps: config.GitOps{
			Namespace: "gitops-system",
			Path:      "./gitops",
		},
	}

	minCfg := buildMinimalConfig(cfg)
	assert.Equal(t, "gitops-system", minCfg.GitOps.Namespace)
}

func TestGenerateHeader(t *testing.T) {
	header := generateHeader("k3strap.yaml", false)

	assert.Contains(t, header, "# k3strap cluster configuration")
	assert.Contains(t, header, "Generated by: k3strap init")
	assert.Contains(t, header, "Output mode: minimal")
	assert.Contains(t, header, "k3strap apply -c k3strap.yaml")
}

func TestGenerateHeader_FullMode(t *testing.T) {
	header := generateHeader("k3strap.yaml", true)

	assert.Contains(t, header, "Output mode: full")
	assert.NotContains(t, header, "Note: This is a minimal config")
}

func TestGenerateHeader_ContainsTimestamp(t *testing.T) {
	header := generateHeader("k3strap.yaml", false)

	assert.True(t, strings.Contains(header, "Generated at:"))
}
