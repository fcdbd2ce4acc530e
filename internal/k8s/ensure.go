package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apiequality "k8s.io/apimachinery/pkg/api/equality"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EnsureNamespace creates the namespace if absent and otherwise makes sure
// the desired labels are present, leaving server-managed labels alone.
func (c *client) EnsureNamespace(ctx context.Context, ns *corev1.Namespace) (*corev1.Namespace, error) {
	if ns.Name == "" {
		return nil, fmt.Errorf("namespace name is required")
	}

	nsClient := c.clientset.CoreV1().Namespaces()

	live, err := nsClient.Get(ctx, ns.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		created, err := nsClient.Create(ctx, ns, metav1.CreateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create namespace %s: %w", ns.Name, err)
		}
		return created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get namespace %s: %w", ns.Name, err)
	}

	if mergeLabels(&live.ObjectMeta, ns.Labels) {
		updated, err := nsClient.Update(ctx, live, metav1.UpdateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to update namespace %s: %w", ns.Name, err)
		}
		return updated, nil
	}
	return live, nil
}

// DeleteNamespace deletes a namespace, returning nil if not found.
func (c *client) DeleteNamespace(ctx context.Context, name string) error {
	err := c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}
	return nil
}

// EnsureSecret creates the secret if absent and updates its data and labels
// when they drift. The object is updated in place, never recreated, so its
// UID survives key rotations.
func (c *client) EnsureSecret(ctx context.Context, secret *corev1.Secret) (*corev1.Secret, error) {
	if secret.Namespace == "" {
		return nil, fmt.Errorf("secret namespace is required")
	}
	if secret.Name == "" {
		return nil, fmt.Errorf("secret name is required")
	}

	secretsClient := c.clientset.CoreV1().Secrets(secret.Namespace)

	live, err := secretsClient.Get(ctx, secret.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		created, err := secretsClient.Create(ctx, secret, metav1.CreateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create secret %s/%s: %w", secret.Namespace, secret.Name, err)
		}
		return created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s/%s: %w", secret.Namespace, secret.Name, err)
	}

	changed := mergeLabels(&live.ObjectMeta, secret.Labels)
	if !apiequality.Semantic.DeepEqual(live.Data, secret.Data) {
		live.Data = secret.Data
		changed = true
	}
	if changed {
		updated, err := secretsClient.Update(ctx, live, metav1.UpdateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to update secret %s/%s: %w", secret.Namespace, secret.Name, err)
		}
		return updated, nil
	}
	return live, nil
}

// DeleteSecret deletes a secret, returning nil if not found.
func (c *client) DeleteSecret(ctx context.Context, namespace, name string) error {
	err := c.clientset.CoreV1().Secrets(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete secret %s/%s: %w", namespace, name, err)
	}
	return nil
}

// EnsurePersistentVolume creates the volume if absent. Volume specs are
// immutable for the fields this tool manages, so an existing volume is
// returned as-is apart from label reconciliation.
func (c *client) EnsurePersistentVolume(ctx context.Context, pv *corev1.PersistentVolume) (*corev1.PersistentVolume, error) {
	if pv.Name == "" {
		return nil, fmt.Errorf("persistent volume name is required")
	}

	pvClient := c.clientset.CoreV1().PersistentVolumes()

	live, err := pvClient.Get(ctx, pv.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		created, err := pvClient.Create(ctx, pv, metav1.CreateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create persistent volume %s: %w", pv.Name, err)
		}
		return created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persistent volume %s: %w", pv.Name, err)
	}

	if mergeLabels(&live.ObjectMeta, pv.Labels) {
		updated, err := pvClient.Update(ctx, live, metav1.UpdateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to update persistent volume %s: %w", pv.Name, err)
		}
		return updated, nil
	}
	return live, nil
}

// DeletePersistentVolume deletes a persistent volume, returning nil if not
// found.
func (c *client) DeletePersistentVolume(ctx context.Context, name string) error {
	err := c.clientset.CoreV1().PersistentVolumes().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete persistent volume %s: %w", name, err)
	}
	return nil
}

// mergeLabels makes sure every desired label is set, reporting whether the
// object changed. Labels the server or other actors own are preserved.
func mergeLabels(meta *metav1.ObjectMeta, desired map[string]string) bool {
	if len(desired) == 0 {
		return false
	}
	changed := false
	if meta.Labels == nil {
		meta.Labels = make(map[string]string, len(desired))
	}
	for k, v := range desired {
		if meta.Labels[k] != v {
			meta.Labels[k] = v
			changed = true
		}
	}
	return changed
}
