package handlers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sunnydmess/k3strap/internal/bootstrap"
	"github.com/sunnydmess/k3strap/internal/config"
	"github.com/sunnydmess/k3strap/internal/k8s/k8stest"
	"github.com/sunnydmess/k3strap/internal/shell"
	"github.com/sunnydmess/k3strap/internal/sshkey"
	"github.com/sunnydmess/k3strap/internal/state"
	"github.com/sunnydmess/k3strap/internal/util/prerequisites"
)

// fakeRunner answers every command successfully unless the argv contains a
// registered fail marker.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	fail  map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{fail: make(map[string]error)}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (*shell.Result, error) {
	argv := append([]string{name}, args...)
	joined := strings.Join(argv, " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, argv)
	for marker, err := range f.fail {
		if strings.Contains(joined, marker) {
			return &shell.Result{ExitCode: 1, Stderr: []byte(err.Error() + "\n")}, err
		}
	}
	return &shell.Result{Stdout: []byte(joined + "\n")}, nil
}

func (f *fakeRunner) countMatching(marker string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, argv := range f.calls {
		if strings.Contains(strings.Join(argv, " "), marker) {
			n++
		}
	}
	return n
}

// fixture wires the handler factory variables to fakes for one test and
// restores them afterwards.
type fixture struct {
	cfg    *config.Config
	runner *fakeRunner
	fc     *k8stest.FakeCluster
	store  *state.FileStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tmp := t.TempDir()
	keyPath := filepath.Join(tmp, "deploy_key")
	kp, err := sshkey.GenerateEd25519("deploy@test")
	require.NoError(t, err)
	require.NoError(t, sshkey.WriteKeyPair(kp, keyPath))

	repoPath := filepath.Join(tmp, "gitops")
	require.NoError(t, os.MkdirAll(repoPath, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(repoPath, "kustomization.yaml"),
		[]byte("resources:\n  - cluster\n"), 0o644))

	f := &fixture{
		cfg: &config.Config{
			ClusterName: "test-cluster",
			User:        "tester",
			Host:        "node1",
			Kubeconfig:  filepath.Join(tmp, "kubeconfig"),
			Workers:     1,
			K3s:         config.K3s{Version: "v1.28.5+k3s1"},
			GitOps: config.GitOps{
				Namespace:     "flux-system",
				Path:          repoPath,
				DeployKeyPath: keyPath,
			},
			Workloads: config.Workloads{Namespaces: []string{"media"}},
			State:     config.State{Backend: "local", Path: filepath.Join(tmp, "state.yaml")},
			Waits: config.Waits{
				NodeReady:   config.Budget{Attempts: 2, Interval: time.Millisecond},
				CRDs:        config.Budget{Attempts: 2, Interval: time.Millisecond},
				Controllers: config.Budget{Attempts: 2, Interval: time.Millisecond},
			},
		},
		runner: newFakeRunner(),
		fc:     k8stest.NewHealthyFakeCluster(),
		store:  state.NewFileStore(filepath.Join(tmp, "state.yaml")),
	}

	origDiscover := discoverConfig
	origLoad := loadConfigFile
	origSequencer := newSequencer
	origPrereqs := checkDefaultPrereqs
	origTerminal := stdoutIsTerminal
	t.Cleanup(func() {
		discoverConfig = origDiscover
		loadConfigFile = origLoad
		newSequencer = origSequencer
		checkDefaultPrereqs = origPrereqs
		stdoutIsTerminal = origTerminal
	})

	discoverConfig = func(explicit string) (string, error) { return "k3strap.yaml", nil }
	loadConfigFile = func(_ string) (*config.Config, error) { return f.cfg, nil }
	newSequencer = func(cfg *config.Config, store state.Store) (*bootstrap.Sequencer, error) {
		resolved, err := cfg.Resolve()
		if err != nil {
			return nil, err
		}
		return &bootstrap.Sequencer{
			Config:   cfg,
			Resolved: resolved,
			Runner:   f.runner,
			Client:   f.fc,
			Store:    store,
		}, nil
	}
	checkDefaultPrereqs = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	stdoutIsTerminal = func() bool { return false }

	return f
}
