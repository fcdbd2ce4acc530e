package k8s

import (
	"context"
	"fmt"
	"os"
	"sync"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// Client provides the Kubernetes operations the bootstrap pipeline needs.
type Client interface {
	// EnsureNamespace creates or updates the namespace and returns the live
	// object.
	EnsureNamespace(ctx context.Context, ns *corev1.Namespace) (*corev1.Namespace, error)

	// DeleteNamespace deletes a namespace, returning nil if not found.
	DeleteNamespace(ctx context.Context, name string) error

	// EnsureSecret creates or updates the secret and returns the live object.
	EnsureSecret(ctx context.Context, secret *corev1.Secret) (*corev1.Secret, error)

	// DeleteSecret deletes a secret, returning nil if not found.
	DeleteSecret(ctx context.Context, namespace, name string) error

	// EnsurePersistentVolume creates the volume if absent and returns the
	// live object.
	EnsurePersistentVolume(ctx context.Context, pv *corev1.PersistentVolume) (*corev1.PersistentVolume, error)

	// DeletePersistentVolume deletes a persistent volume, returning nil if
	// not found.
	DeletePersistentVolume(ctx context.Context, name string) error

	// ApplyManifests applies multi-document YAML using Server-Side Apply.
	// The fieldManager identifies the actor applying the configuration.
	ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error

	// DeleteManifests deletes every object in the multi-document YAML in
	// reverse document order, ignoring objects that are already gone.
	DeleteManifests(ctx context.Context, manifests []byte) error

	// NodesReady reports whether the cluster has at least one node and all
	// nodes are Ready.
	NodesReady(ctx context.Context) (bool, error)

	// CRDEstablished reports whether the named CustomResourceDefinition has
	// reached the Established condition.
	CRDEstablished(ctx context.Context, name string) (bool, error)

	// DeploymentAvailable reports whether the deployment has reached the
	// Available condition.
	DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error)
}

// resettableMapper is satisfied by discovery-backed mappers that can drop
// their cache, picking up CRDs installed after construction.
type resettableMapper interface {
	Reset()
}

// client implements Client using k8s.io/client-go.
type client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	mapper    meta.RESTMapper
}

// NewFromKubeconfig creates a Client from kubeconfig bytes.
func NewFromKubeconfig(kubeconfig []byte) (Client, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	// The deferred mapper refreshes through Reset once controller CRDs land
	// mid-run; a snapshot mapper would keep answering "no matches".
	mapper := restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(discoveryClient))

	return &client{clientset: clientset, dynamic: dynamicClient, mapper: mapper}, nil
}

// NewFromKubeconfigFile creates a Client by reading the kubeconfig at path.
func NewFromKubeconfigFile(path string) (Client, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read kubeconfig %s: %w", path, err)
	}
	return NewFromKubeconfig(data)
}

// NewFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(clientset kubernetes.Interface, dynamicClient dynamic.Interface, mapper meta.RESTMapper) Client {
	return &client{clientset: clientset, dynamic: dynamicClient, mapper: mapper}
}

// lazyClient defers construction until first use. The kubeconfig this client
// reads is itself written by an earlier plan node, so it cannot be loaded at
// plan-build time.
type lazyClient struct {
	path string

	mu     sync.Mutex
	client Client
}

// NewLazy returns a Client backed by the kubeconfig at path, constructed on
// first use. Construction is retried on every call until it succeeds.
func NewLazy(kubeconfigPath string) Client {
	return &lazyClient{path: kubeconfigPath}
}

func (l *lazyClient) get() (Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := NewFromKubeconfigFile(l.path)
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}

func (l *lazyClient) EnsureNamespace(ctx context.Context, ns *corev1.Namespace) (*corev1.Namespace, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.EnsureNamespace(ctx, ns)
}

func (l *lazyClient) DeleteNamespace(ctx context.Context, name string) error {
	c, err := l.get()
	if err != nil {
		return err
	}
	return c.DeleteNamespace(ctx, name)
}

func (l *lazyClient) EnsureSecret(ctx context.Context, secret *corev1.Secret) (*corev1.Secret, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.EnsureSecret(ctx, secret)
}

func (l *lazyClient) DeleteSecret(ctx context.Context, namespace, name string) error {
	c, err := l.get()
	if err != nil {
		return err
	}
	return c.DeleteSecret(ctx, namespace, name)
}

func (l *lazyClient) EnsurePersistentVolume(ctx context.Context, pv *corev1.PersistentVolume) (*corev1.PersistentVolume, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.EnsurePersistentVolume(ctx, pv)
}

func (l *lazyClient) DeletePersistentVolume(ctx context.Context, name string) error {
	c, err := l.get()
	if err != nil {
		return err
	}
	return c.DeletePersistentVolume(ctx, name)
}

func (l *lazyClient) ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error {
	c, err := l.get()
	if err != nil {
		return err
	}
	return c.ApplyManifests(ctx, manifests, fieldManager)
}

func (l *lazyClient) DeleteManifests(ctx context.Context, manifests []byte) error {
	c, err := l.get()
	if err != nil {
		return err
	}
	return c.DeleteManifests(ctx, manifests)
}

func (l *lazyClient) NodesReady(ctx context.Context) (bool, error) {
	c, err := l.get()
	if err != nil {
		return false, err
	}
	return c.NodesReady(ctx)
}

func (l *lazyClient) CRDEstablished(ctx context.Context, name string) (bool, error) {
	c, err := l.get()
	if err != nil {
		return false, err
	}
	return c.CRDEstablished(ctx, name)
}

func (l *lazyClient) DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error) {
	c, err := l.get()
	if err != nil {
		return false, err
	}
	return c.DeploymentAvailable(ctx, namespace, name)
}
