package resource

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	k8sresource "k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sunnydmess/k3strap/internal/k8s"
	"github.com/sunnydmess/k3strap/internal/plan"
)

// PersistentVolume reconciles a hostPath-backed persistent volume with a
// Retain reclaim policy, so data on the node survives claim churn.
type PersistentVolume struct {
	Client       k8s.Client
	Name         string
	StorageClass string
	Capacity     string
	AccessModes  []corev1.PersistentVolumeAccessMode
	HostPath     string
	Labels       map[string]string
}

// Apply ensures the volume exists. An existing volume keeps its spec since
// most volume fields are immutable anyway.
func (v *PersistentVolume) Apply(ctx context.Context) (*plan.Result, error) {
	quantity, err := k8sresource.ParseQuantity(v.Capacity)
	if err != nil {
		return nil, fmt.Errorf("invalid capacity %q for volume %s: %w", v.Capacity, v.Name, err)
	}

	hostPathType := corev1.HostPathDirectoryOrCreate
	live, err := v.Client.EnsurePersistentVolume(ctx, &corev1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{
			Name:   v.Name,
			Labels: v.Labels,
		},
		Spec: corev1.PersistentVolumeSpec{
			StorageClassName: v.StorageClass,
			Capacity: corev1.ResourceList{
				corev1.ResourceStorage: quantity,
			},
			AccessModes:                   v.AccessModes,
			PersistentVolumeReclaimPolicy: corev1.PersistentVolumeReclaimRetain,
			PersistentVolumeSource: corev1.PersistentVolumeSource{
				HostPath: &corev1.HostPathVolumeSource{
					Path: v.HostPath,
					Type: &hostPathType,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &plan.Result{
		Stdout:   fmt.Sprintf("persistent volume %s ensured", live.Name),
		Identity: string(live.UID),
	}, nil
}

// Destroy deletes the volume object. The hostPath data stays on disk.
func (v *PersistentVolume) Destroy(ctx context.Context) error {
	return v.Client.DeletePersistentVolume(ctx, v.Name)
}
