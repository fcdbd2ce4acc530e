// Package k8stest provides an in-memory k8s.Client for tests, in the same
// spirit as client-go's fake subpackages. The fake keeps live objects in
// maps and hands out serial UIDs, so identity semantics (a UID that is
// stable across re-applies and changes on recreate) can be tested without a
// cluster.
package k8stest

import (
	"context"
	"fmt"
	"sync"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/sunnydmess/k3strap/internal/k8s"
)

// AppliedBundle records one ApplyManifests call.
type AppliedBundle struct {
	Manifests    []byte
	FieldManager string
}

// FakeCluster implements k8s.Client against in-memory state. Error fields
// inject failures into the matching call; readiness answers come from the
// exported flags and maps.
type FakeCluster struct {
	mu sync.Mutex

	Namespaces map[string]*corev1.Namespace
	Secrets    map[string]*corev1.Secret
	Volumes    map[string]*corev1.PersistentVolume

	Applied        []AppliedBundle
	DeletedBundles [][]byte

	NodeReady            bool
	EstablishedCRDs      map[string]bool
	AvailableDeployments map[string]bool

	// AllCRDsEstablished and AllDeploymentsAvailable short-circuit the
	// per-name maps for tests that do not care which names are polled.
	AllCRDsEstablished      bool
	AllDeploymentsAvailable bool

	EnsureNamespaceErr error
	EnsureSecretErr    error
	EnsureVolumeErr    error
	ApplyErr           error
	DeleteErr          error

	uidSerial int
}

var _ k8s.Client = (*FakeCluster)(nil)

// NewFakeCluster returns an empty cluster that is not ready yet.
func NewFakeCluster() *FakeCluster {
	return &FakeCluster{
		Namespaces:           make(map[string]*corev1.Namespace),
		Secrets:              make(map[string]*corev1.Secret),
		Volumes:              make(map[string]*corev1.PersistentVolume),
		EstablishedCRDs:      make(map[string]bool),
		AvailableDeployments: make(map[string]bool),
	}
}

// NewHealthyFakeCluster returns a cluster where every readiness check
// passes immediately.
func NewHealthyFakeCluster() *FakeCluster {
	fc := NewFakeCluster()
	fc.NodeReady = true
	fc.AllCRDsEstablished = true
	fc.AllDeploymentsAvailable = true
	return fc
}

func (f *FakeCluster) nextUID(kind string) types.UID {
	f.uidSerial++
	return types.UID(fmt.Sprintf("%s-uid-%d", kind, f.uidSerial))
}

func secretKey(namespace, name string) string {
	return namespace + "/" + name
}

// EnsureNamespace creates or label-merges a namespace, keeping the UID of
// an existing one.
func (f *FakeCluster) EnsureNamespace(_ context.Context, ns *corev1.Namespace) (*corev1.Namespace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EnsureNamespaceErr != nil {
		return nil, f.EnsureNamespaceErr
	}
	live, ok := f.Namespaces[ns.Name]
	if !ok {
		live = ns.DeepCopy()
		live.UID = f.nextUID("ns")
		f.Namespaces[ns.Name] = live
	} else {
		applyLabels(&live.ObjectMeta, ns.Labels)
	}
	return live.DeepCopy(), nil
}

// DeleteNamespace removes the namespace, tolerating absence.
func (f *FakeCluster) DeleteNamespace(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Namespaces, name)
	return nil
}

// EnsureSecret creates or updates a secret in place, keeping the UID of an
// existing one.
func (f *FakeCluster) EnsureSecret(_ context.Context, secret *corev1.Secret) (*corev1.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EnsureSecretErr != nil {
		return nil, f.EnsureSecretErr
	}
	key := secretKey(secret.Namespace, secret.Name)
	live, ok := f.Secrets[key]
	if !ok {
		live = secret.DeepCopy()
		live.UID = f.nextUID("secret")
		f.Secrets[key] = live
	} else {
		live.Data = secret.DeepCopy().Data
		applyLabels(&live.ObjectMeta, secret.Labels)
	}
	return live.DeepCopy(), nil
}

// DeleteSecret removes the secret, tolerating absence.
func (f *FakeCluster) DeleteSecret(_ context.Context, namespace, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Secrets, secretKey(namespace, name))
	return nil
}

// EnsurePersistentVolume creates the volume if absent, keeping an existing
// one untouched.
func (f *FakeCluster) EnsurePersistentVolume(_ context.Context, pv *corev1.PersistentVolume) (*corev1.PersistentVolume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EnsureVolumeErr != nil {
		return nil, f.EnsureVolumeErr
	}
	live, ok := f.Volumes[pv.Name]
	if !ok {
		live = pv.DeepCopy()
		live.UID = f.nextUID("pv")
		f.Volumes[pv.Name] = live
	}
	return live.DeepCopy(), nil
}

// DeletePersistentVolume removes the volume, tolerating absence.
func (f *FakeCluster) DeletePersistentVolume(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Volumes, name)
	return nil
}

// ApplyManifests records the bundle.
func (f *FakeCluster) ApplyManifests(_ context.Context, manifests []byte, fieldManager string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ApplyErr != nil {
		return f.ApplyErr
	}
	f.Applied = append(f.Applied, AppliedBundle{
		Manifests:    append([]byte(nil), manifests...),
		FieldManager: fieldManager,
	})
	return nil
}

// DeleteManifests records the bundle.
func (f *FakeCluster) DeleteManifests(_ context.Context, manifests []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.DeletedBundles = append(f.DeletedBundles, append([]byte(nil), manifests...))
	return nil
}

// NodesReady answers from the NodeReady flag.
func (f *FakeCluster) NodesReady(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.NodeReady, nil
}

// CRDEstablished answers from AllCRDsEstablished or the per-name map.
func (f *FakeCluster) CRDEstablished(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AllCRDsEstablished {
		return true, nil
	}
	return f.EstablishedCRDs[name], nil
}

// DeploymentAvailable answers from AllDeploymentsAvailable or the per-name
// map keyed namespace/name.
func (f *FakeCluster) DeploymentAvailable(_ context.Context, namespace, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AllDeploymentsAvailable {
		return true, nil
	}
	return f.AvailableDeployments[secretKey(namespace, name)], nil
}

// RecreateNamespace simulates an out-of-band delete and recreate: the
// namespace keeps its name and labels but gets a fresh UID.
func (f *FakeCluster) RecreateNamespace(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	live, ok := f.Namespaces[name]
	if !ok {
		return
	}
	recreated := live.DeepCopy()
	recreated.UID = f.nextUID("ns")
	f.Namespaces[name] = recreated
}

func applyLabels(live *metav1.ObjectMeta, desired map[string]string) {
	if len(desired) == 0 {
		return
	}
	if live.Labels == nil {
		live.Labels = make(map[string]string, len(desired))
	}
	for k, v := range desired {
		live.Labels[k] = v
	}
}
