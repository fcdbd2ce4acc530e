package k8s

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

var crdGVR = schema.GroupVersionResource{
	Group:    "apiextensions.k8s.io",
	Version:  "v1",
	Resource: "customresourcedefinitions",
}

// NodesReady reports whether the cluster has registered at least one node
// and every registered node is Ready.
func (c *client) NodesReady(ctx context.Context) (bool, error) {
	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list nodes: %w", err)
	}
	if len(nodes.Items) == 0 {
		return false, nil
	}
	for i := range nodes.Items {
		if !isNodeReady(&nodes.Items[i]) {
			return false, nil
		}
	}
	return true, nil
}

// CRDEstablished reports whether the named CustomResourceDefinition exists
// and has reached the Established condition. A missing CRD is not an error,
// it just is not established yet.
func (c *client) CRDEstablished(ctx context.Context, name string) (bool, error) {
	crd, err := c.dynamic.Resource(crdGVR).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get CRD %s: %w", name, err)
	}
	return crdHasEstablished(crd), nil
}

// DeploymentAvailable reports whether the deployment exists and has reached
// the Available condition. A missing deployment is not an error.
func (c *client) DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error) {
	deploy, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
	}
	return isDeploymentAvailable(deploy), nil
}

// isNodeReady checks the node's Ready condition.
func isNodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

// isDeploymentAvailable checks the deployment's Available condition.
func isDeploymentAvailable(deploy *appsv1.Deployment) bool {
	for _, condition := range deploy.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

// crdHasEstablished walks status.conditions on an unstructured CRD looking
// for Established=True.
func crdHasEstablished(crd *unstructured.Unstructured) bool {
	conditions, found, err := unstructured.NestedSlice(crd.Object, "status", "conditions")
	if err != nil || !found {
		return false
	}
	for _, raw := range conditions {
		condition, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if condition["type"] == "Established" && condition["status"] == "True" {
			return true
		}
	}
	return false
}
