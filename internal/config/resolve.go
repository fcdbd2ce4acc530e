package config

import (
	"os"
	"path/filepath"
)

// Resolved holds the values derived from the config file and the
// environment: explicit config wins, then the environment, then a
// hard-coded fallback. Resolution happens once, before the plan is
// built, so every node sees the same values.
type Resolved struct {
	User          string
	Host          string
	Kubeconfig    string
	RepoPath      string
	DeployKeyPath string
}

// Resolve computes the effective user, host, and paths for this run.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		User:          c.User,
		Host:          c.Host,
		Kubeconfig:    c.Kubeconfig,
		RepoPath:      c.GitOps.Path,
		DeployKeyPath: c.GitOps.DeployKeyPath,
	}

	if r.User == "" {
		r.User = os.Getenv("USER")
	}
	if r.User == "" {
		r.User = "root"
	}

	if r.Host == "" {
		if hostname, err := os.Hostname(); err == nil {
			r.Host = hostname
		}
	}
	if r.Host == "" {
		r.Host = "localhost"
	}

	if r.RepoPath == "" {
		r.RepoPath = os.Getenv("K3STRAP_GITOPS_PATH")
	}
	if r.RepoPath == "" {
		r.RepoPath = "./gitops"
	}

	if r.DeployKeyPath == "" {
		r.DeployKeyPath = os.Getenv("K3STRAP_DEPLOY_KEY")
	}
	if r.DeployKeyPath == "" {
		path, err := homePath(".ssh", "id_ed25519")
		if err != nil {
			return nil, Wrap(err, "no deploy key path configured and the home directory is unknown")
		}
		r.DeployKeyPath = path
	}

	if r.Kubeconfig == "" {
		r.Kubeconfig = os.Getenv("KUBECONFIG")
	}
	if r.Kubeconfig == "" {
		path, err := homePath(".kube", "config")
		if err != nil {
			return nil, Wrap(err, "no kubeconfig path configured and the home directory is unknown")
		}
		r.Kubeconfig = path
	}

	return r, nil
}

// homePath joins path elements under the current user's home directory.
func homePath(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}
