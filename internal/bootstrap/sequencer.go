package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/sunnydmess/k3strap/internal/chart"
	"github.com/sunnydmess/k3strap/internal/config"
	"github.com/sunnydmess/k3strap/internal/k8s"
	"github.com/sunnydmess/k3strap/internal/plan"
	"github.com/sunnydmess/k3strap/internal/resource"
	"github.com/sunnydmess/k3strap/internal/shell"
	"github.com/sunnydmess/k3strap/internal/sshkey"
	"github.com/sunnydmess/k3strap/internal/state"
	"github.com/sunnydmess/k3strap/internal/step"
	"github.com/sunnydmess/k3strap/internal/trigger"
	"github.com/sunnydmess/k3strap/internal/util/labels"
)

// Node names of the fixed pipeline, in declaration order.
const (
	NodeCheckRuntime       = "check-runtime"
	NodeInstallRuntime     = "install-runtime"
	NodeWriteKubeconfig    = "write-kubeconfig"
	NodeHardenRuntime      = "harden-runtime"
	NodeWaitNodeReady      = "wait-node-ready"
	NodeGitOpsNamespace    = "gitops-namespace"
	NodeDeployKeySecret    = "deploy-key-secret"
	NodeInstallControllers = "install-controllers"
	NodeWaitCRDs           = "wait-crds-established"
	NodeSyncManifests      = "sync-manifests"
	NodeWaitControllers    = "wait-controllers-ready"
	NodeWorkloads          = "workload-namespaces"
)

const (
	installerURL        = "https://get.k3s.io"
	installedKubeconfig = "/etc/rancher/k3s/k3s.yaml"
	uninstallerPath     = "/usr/local/bin/k3s-uninstall.sh"

	deployKeySecretName = "gitops-deploy-key"
	deployKeySecretKey  = "identity"
	fieldManager        = "k3strap"
)

// Controller objects the wait nodes poll, matching the embedded chart.
const (
	crdGitRepositories = "gitrepositories.source.toolkit.fluxcd.io"
	crdKustomizations  = "kustomizations.kustomize.toolkit.fluxcd.io"

	deploySourceController    = "source-controller"
	deployKustomizeController = "kustomize-controller"
)

// Sequencer builds and runs the provisioning pipeline.
type Sequencer struct {
	Config   *config.Config
	Resolved *config.Resolved
	Runner   shell.Runner
	Client   k8s.Client
	Store    state.Store

	// Observer receives plan progress events. Nil means no reporting.
	Observer plan.Observer
}

// New wires a sequencer from a loaded configuration. The Kubernetes client
// is lazy because the kubeconfig it reads is written by the write-kubeconfig
// node partway through the run.
func New(cfg *config.Config, store state.Store) (*Sequencer, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	return &Sequencer{
		Config:   cfg,
		Resolved: resolved,
		Runner:   shell.ExecRunner{},
		Client:   k8s.NewLazy(resolved.Kubeconfig),
		Store:    store,
	}, nil
}

// BuildPlan constructs the pipeline for one run. Trigger inputs that come
// from local files (the deploy key, the repository content hash, the
// controller manifests) are computed here, so an unreadable file fails the
// run before any node executes.
func (s *Sequencer) BuildPlan() (*plan.Plan, error) {
	p := plan.New(s.Config.ClusterName)

	s.addRuntimeNodes(p)
	if err := s.addControlPlaneNodes(p); err != nil {
		return nil, err
	}
	s.addWorkloadNode(p)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// addRuntimeNodes declares the probe, install, local access, optional
// hardening, and node readiness nodes.
func (s *Sequencer) addRuntimeNodes(p *plan.Plan) {
	cfg := s.Config

	probeProg, probeArgs := shell.Script("k3s --version 2>/dev/null || echo 'k3s not installed'")
	p.MustAdd(&plan.Node{
		Name:   NodeCheckRuntime,
		Kind:   plan.KindCommand,
		Always: true,
		Op:     &step.Command{Runner: s.Runner, Prog: probeProg, Args: probeArgs},
	})

	installProg, installArgs := shell.Script(installScript(cfg.K3s.Version, cfg.K3s.ExtraArgs))
	p.MustAdd(&plan.Node{
		Name:      NodeInstallRuntime,
		Kind:      plan.KindCommand,
		DependsOn: []string{NodeCheckRuntime},
		Triggers:  []plan.Trigger{plan.Value("k3s-version", cfg.K3s.Version)},
		Op: &step.ReversibleCommand{
			Command:    step.Command{Runner: s.Runner, Prog: installProg, Args: installArgs},
			DeleteProg: uninstallerPath,
		},
	})

	copyProg, copyArgs := shell.Script(kubeconfigScript(s.Resolved.User, s.Resolved.Kubeconfig))
	p.MustAdd(&plan.Node{
		Name:      NodeWriteKubeconfig,
		Kind:      plan.KindCommand,
		DependsOn: []string{NodeInstallRuntime},
		Triggers:  []plan.Trigger{plan.Output(NodeInstallRuntime)},
		Op: &step.ReversibleCommand{
			Command:    step.Command{Runner: s.Runner, Prog: copyProg, Args: copyArgs},
			DeleteProg: "rm",
			DeleteArgs: []string{"-f", s.Resolved.Kubeconfig},
		},
	})

	waitDependsOn := NodeWriteKubeconfig
	if cfg.Hardening.Enabled() {
		hardenProg, hardenArgs := shell.Script(hardenScript(cfg.Hardening.ServerAddress, s.Resolved.Kubeconfig))
		p.MustAdd(&plan.Node{
			Name:      NodeHardenRuntime,
			Kind:      plan.KindCommand,
			DependsOn: []string{NodeWriteKubeconfig},
			Triggers:  []plan.Trigger{plan.Value("server-address", cfg.Hardening.ServerAddress)},
			Op:        &step.Command{Runner: s.Runner, Prog: hardenProg, Args: hardenArgs},
		})
		waitDependsOn = NodeHardenRuntime
	}

	p.MustAdd(&plan.Node{
		Name:      NodeWaitNodeReady,
		Kind:      plan.KindCommand,
		DependsOn: []string{waitDependsOn},
		Always:    true,
		Op: &step.Poll{
			Check:    s.Client.NodesReady,
			Attempts: cfg.Waits.NodeReady.Attempts,
			Interval: cfg.Waits.NodeReady.Interval,
		},
	})
}

// addControlPlaneNodes declares the GitOps namespace, deploy key secret,
// controller installation, repository sync, and their wait nodes.
func (s *Sequencer) addControlPlaneNodes(p *plan.Plan) error {
	cfg := s.Config
	namespace := cfg.GitOps.Namespace

	p.MustAdd(&plan.Node{
		Name:      NodeGitOpsNamespace,
		Kind:      plan.KindResource,
		DependsOn: []string{NodeWaitNodeReady},
		Always:    true,
		Op: &resource.Namespace{
			Client: s.Client,
			Name:   namespace,
			Labels: s.labelsFor(labels.ComponentControlPlane),
		},
	})

	key, err := os.ReadFile(s.Resolved.DeployKeyPath) // #nosec G304
	if err != nil {
		return config.Wrap(err, "failed to read deploy key %s", s.Resolved.DeployKeyPath)
	}
	fingerprint, err := sshkey.Fingerprint(key)
	if err != nil {
		return config.Wrap(err, "deploy key %s is not a usable private key", s.Resolved.DeployKeyPath)
	}

	p.MustAdd(&plan.Node{
		Name:      NodeDeployKeySecret,
		Kind:      plan.KindResource,
		DependsOn: []string{NodeGitOpsNamespace},
		Triggers:  []plan.Trigger{plan.Value("deploy-key", fingerprint)},
		Op: &resource.Secret{
			Client:    s.Client,
			Namespace: namespace,
			Name:      deployKeySecretName,
			Data:      map[string][]byte{deployKeySecretKey: key},
			Labels:    s.labelsFor(labels.ComponentControlPlane),
		},
	})

	manifests, err := s.controllerManifests()
	if err != nil {
		return err
	}

	p.MustAdd(&plan.Node{
		Name:      NodeInstallControllers,
		Kind:      plan.KindResource,
		DependsOn: []string{NodeDeployKeySecret},
		Triggers:  []plan.Trigger{plan.Value("controller-manifests", trigger.HashBytes(manifests))},
		Op: &resource.ManifestSet{
			Client:       s.Client,
			Manifests:    manifests,
			FieldManager: fieldManager,
		},
	})

	p.MustAdd(&plan.Node{
		Name:      NodeWaitCRDs,
		Kind:      plan.KindCommand,
		DependsOn: []string{NodeInstallControllers},
		Always:    true,
		Op: &step.Poll{
			Check:    s.crdsEstablished,
			Attempts: cfg.Waits.CRDs.Attempts,
			Interval: cfg.Waits.CRDs.Interval,
		},
	})

	repoHash, err := trigger.HashDir(s.Resolved.RepoPath)
	if err != nil {
		return config.Wrap(err, "failed to hash gitops repository %s", s.Resolved.RepoPath)
	}

	p.MustAdd(&plan.Node{
		Name:      NodeSyncManifests,
		Kind:      plan.KindCommand,
		DependsOn: []string{NodeWaitCRDs},
		Triggers: []plan.Trigger{
			plan.IdentityOf(NodeGitOpsNamespace),
			plan.Value("sync-content", repoHash),
		},
		Op: &step.ReversibleCommand{
			Command: step.Command{
				Runner: s.Runner,
				Prog:   "kubectl",
				Args:   []string{"apply", "--server-side", "-k", s.Resolved.RepoPath},
			},
			DeleteProg: "kubectl",
			DeleteArgs: []string{"delete", "-k", s.Resolved.RepoPath, "--ignore-not-found"},
		},
	})

	p.MustAdd(&plan.Node{
		Name:      NodeWaitControllers,
		Kind:      plan.KindCommand,
		DependsOn: []string{NodeSyncManifests},
		Always:    true,
		Op: &step.Poll{
			Check:    s.controllersAvailable,
			Attempts: cfg.Waits.Controllers.Attempts,
			Interval: cfg.Waits.Controllers.Interval,
		},
	})

	return nil
}

// addWorkloadNode declares the baseline workload namespaces and host-path
// volumes, grouped into one set.
func (s *Sequencer) addWorkloadNode(p *plan.Plan) {
	cfg := s.Config

	ops := make([]plan.Operation, 0, len(cfg.Workloads.Namespaces)+len(cfg.Workloads.Volumes))
	for _, name := range cfg.Workloads.Namespaces {
		ops = append(ops, &resource.Namespace{
			Client: s.Client,
			Name:   name,
			Labels: s.labelsFor(labels.ComponentWorkload),
		})
	}
	for _, vol := range cfg.Workloads.Volumes {
		modes := make([]corev1.PersistentVolumeAccessMode, 0, len(vol.AccessModes))
		for _, mode := range vol.AccessModes {
			modes = append(modes, corev1.PersistentVolumeAccessMode(mode))
		}
		ops = append(ops, &resource.PersistentVolume{
			Client:       s.Client,
			Name:         vol.Name,
			StorageClass: vol.StorageClass,
			Capacity:     vol.Capacity,
			AccessModes:  modes,
			HostPath:     vol.HostPath,
			Labels:       s.labelsFor(labels.ComponentStorage),
		})
	}

	p.MustAdd(&plan.Node{
		Name:      NodeWorkloads,
		Kind:      plan.KindResource,
		DependsOn: []string{NodeWaitNodeReady},
		Always:    true,
		Op:        &resource.Set{Ops: ops},
	})
}

// controllerManifests returns the GitOps controller bundle: a configured
// pre-rendered file when one is given, the embedded chart otherwise.
func (s *Sequencer) controllerManifests() ([]byte, error) {
	if path := s.Config.GitOps.ManifestPath; path != "" {
		manifests, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return nil, config.Wrap(err, "failed to read controller manifests %s", path)
		}
		return manifests, nil
	}
	manifests, err := chart.RenderControllers(s.Config.GitOps.Namespace, s.Config.GitOps.ControllersVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to render controller manifests: %w", err)
	}
	return manifests, nil
}

// crdsEstablished reports whether every controller CRD has reached the
// Established condition.
func (s *Sequencer) crdsEstablished(ctx context.Context) (bool, error) {
	for _, name := range []string{crdGitRepositories, crdKustomizations} {
		ok, err := s.Client.CRDEstablished(ctx, name)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// controllersAvailable reports whether both controller deployments have
// reached the Available condition.
func (s *Sequencer) controllersAvailable(ctx context.Context) (bool, error) {
	for _, name := range []string{deploySourceController, deployKustomizeController} {
		ok, err := s.Client.DeploymentAvailable(ctx, s.Config.GitOps.Namespace, name)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (s *Sequencer) labelsFor(component string) map[string]string {
	return labels.NewBuilder(s.Config.ClusterName).WithComponent(component).Build()
}

// installScript renders the upstream installer invocation with the version
// pin and install arguments.
func installScript(version string, extraArgs []string) string {
	args := make([]string, 0, len(config.DefaultInstallArgs)+len(extraArgs))
	args = append(args, config.DefaultInstallArgs...)
	args = append(args, extraArgs...)
	return fmt.Sprintf("curl -sfL %s | INSTALL_K3S_VERSION=%s sh -s - %s",
		installerURL, version, strings.Join(args, " "))
}

// kubeconfigScript copies the installer-written kubeconfig to its resolved
// destination with owner-only permissions.
func kubeconfigScript(user, path string) string {
	return fmt.Sprintf("mkdir -p %q && cp %s %q && chmod 600 %q && chown %s %q",
		filepath.Dir(path), installedKubeconfig, path, path, user, path)
}

// hardenScript rewrites the loopback server address the installer writes
// into the kubeconfig, so remote kubectl works.
func hardenScript(serverAddress, path string) string {
	return fmt.Sprintf("sed -i 's|https://127.0.0.1:6443|https://%s:6443|g' %q", serverAddress, path)
}
