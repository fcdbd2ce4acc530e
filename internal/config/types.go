package config

import "time"

// DefaultK3sVersion pins the runtime installed when the config does not
// name one.
const DefaultK3sVersion = "v1.28.5+k3s1"

// DefaultInstallArgs are always passed to the installer ahead of any
// configured extras.
var DefaultInstallArgs = []string{
	"--disable=traefik",
	"--write-kubeconfig-mode=644",
}

// Config is the on-disk configuration (k3strap.yaml).
type Config struct {
	ClusterName string `mapstructure:"cluster_name" yaml:"cluster_name"`
	User        string `mapstructure:"user" yaml:"user,omitempty"`
	Host        string `mapstructure:"host" yaml:"host,omitempty"`
	Kubeconfig  string `mapstructure:"kubeconfig" yaml:"kubeconfig,omitempty"`

	// Workers bounds how many eligible nodes run at once.
	Workers int `mapstructure:"workers" yaml:"workers,omitempty"`

	K3s       K3s       `mapstructure:"k3s" yaml:"k3s"`
	Hardening Hardening `mapstructure:"hardening" yaml:"hardening,omitempty"`
	GitOps    GitOps    `mapstructure:"gitops" yaml:"gitops"`
	Workloads Workloads `mapstructure:"workloads" yaml:"workloads"`
	State     State     `mapstructure:"state" yaml:"state"`
	Waits     Waits     `mapstructure:"waits" yaml:"waits,omitempty"`
}

// K3s selects the runtime version and extra installer arguments.
type K3s struct {
	Version   string   `mapstructure:"version" yaml:"version"`
	ExtraArgs []string `mapstructure:"extra_args" yaml:"extra_args,omitempty"`
}

// Hardening corrects the kubeconfig the installer writes: the server
// address defaults to the loopback address, which breaks remote kubectl.
type Hardening struct {
	ServerAddress string `mapstructure:"server_address" yaml:"server_address,omitempty"`
}

// Enabled reports whether the hardening node belongs in the plan.
func (h Hardening) Enabled() bool {
	return h.ServerAddress != ""
}

// GitOps configures the control-plane bootstrap.
type GitOps struct {
	Namespace          string `mapstructure:"namespace" yaml:"namespace"`
	Path               string `mapstructure:"path" yaml:"path"`
	DeployKeyPath      string `mapstructure:"deploy_key_path" yaml:"deploy_key_path,omitempty"`
	ControllersVersion string `mapstructure:"controllers_version" yaml:"controllers_version,omitempty"`

	// ManifestPath points at pre-rendered controller manifests. When empty
	// the embedded chart is rendered instead.
	ManifestPath string `mapstructure:"manifest_path" yaml:"manifest_path,omitempty"`
}

// Workloads lists the baseline namespaces and host-path volumes declared
// after the runtime is ready.
type Workloads struct {
	Namespaces []string `mapstructure:"namespaces" yaml:"namespaces"`
	Volumes    []Volume `mapstructure:"volumes" yaml:"volumes"`
}

// Volume describes one host-path persistent volume.
type Volume struct {
	Name         string   `mapstructure:"name" yaml:"name"`
	Capacity     string   `mapstructure:"capacity" yaml:"capacity"`
	AccessModes  []string `mapstructure:"access_modes" yaml:"access_modes"`
	HostPath     string   `mapstructure:"host_path" yaml:"host_path"`
	StorageClass string   `mapstructure:"storage_class" yaml:"storage_class"`
}

// State selects where run state is persisted.
type State struct {
	Backend string  `mapstructure:"backend" yaml:"backend"`
	Path    string  `mapstructure:"path" yaml:"path,omitempty"`
	S3      S3State `mapstructure:"s3" yaml:"s3,omitempty"`
}

// S3State configures the remote state backend. Credentials come from the
// named environment variables, never from the file itself.
type S3State struct {
	Endpoint     string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region       string `mapstructure:"region" yaml:"region"`
	Bucket       string `mapstructure:"bucket" yaml:"bucket"`
	Key          string `mapstructure:"key" yaml:"key,omitempty"`
	AccessKeyEnv string `mapstructure:"access_key_env" yaml:"access_key_env,omitempty"`
	SecretKeyEnv string `mapstructure:"secret_key_env" yaml:"secret_key_env,omitempty"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style,omitempty"`
}

// Budget bounds one poll loop: how many attempts, how long between them.
type Budget struct {
	Attempts int           `mapstructure:"attempts" yaml:"attempts"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// MarshalYAML renders the interval as a duration string ("2s") so that
// generated configs stay readable and load back through the same parser.
func (b Budget) MarshalYAML() (interface{}, error) {
	return struct {
		Attempts int    `yaml:"attempts"`
		Interval string `yaml:"interval"`
	}{Attempts: b.Attempts, Interval: b.Interval.String()}, nil
}

// Waits carries the poll budgets for the three wait nodes.
type Waits struct {
	NodeReady   Budget `mapstructure:"node_ready" yaml:"node_ready"`
	CRDs        Budget `mapstructure:"crds" yaml:"crds"`
	Controllers Budget `mapstructure:"controllers" yaml:"controllers"`
}
