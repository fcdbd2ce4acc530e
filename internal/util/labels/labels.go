// Package labels provides consistent labels for the Kubernetes objects the
// orchestrator manages.
//
// Orchestrator-owned keys use the k3strap.io domain prefix, plus the
// conventional app.kubernetes.io/managed-by marker so other tooling can tell
// managed objects apart from hand-made ones.
package labels

// Standard label keys for managed objects.
const (
	// KeyCluster identifies which cluster configuration declared the object.
	KeyCluster = "k3strap.io/cluster"

	// KeyComponent identifies the pipeline component that owns the object.
	KeyComponent = "k3strap.io/component"

	// KeyManagedBy is the conventional Kubernetes manager marker.
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// ManagedBy is the value every managed object carries under KeyManagedBy.
const ManagedBy = "k3strap"

// Component values.
const (
	ComponentControlPlane = "control-plane"
	ComponentWorkload     = "workload"
	ComponentStorage      = "storage"
)

// Builder assembles the label set for one managed object.
type Builder struct {
	labels map[string]string
}

// NewBuilder creates a builder with the cluster and manager labels pre-set.
func NewBuilder(clusterName string) *Builder {
	return &Builder{
		labels: map[string]string{
			KeyCluster:   clusterName,
			KeyManagedBy: ManagedBy,
		},
	}
}

// WithComponent adds the owning component label.
func (b *Builder) WithComponent(component string) *Builder {
	b.labels[KeyComponent] = component
	return b
}

// Merge adds all labels from the provided map.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		b.labels[k] = v
	}
	return b
}

// Build returns a copy of the labels map.
// Returns a copy to prevent external mutations.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.labels))
	for k, v := range b.labels {
		result[k] = v
	}
	return result
}

// SelectorForCluster returns a label selector string matching every object
// declared by a cluster configuration.
func SelectorForCluster(clusterName string) string {
	return KeyCluster + "=" + clusterName
}
