package resource

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sunnydmess/k3strap/internal/k8s"
	"github.com/sunnydmess/k3strap/internal/plan"
)

// Namespace reconciles a single namespace.
type Namespace struct {
	Client k8s.Client
	Name   string
	Labels map[string]string
}

// Apply ensures the namespace exists with the desired labels. The identity
// is the live namespace UID, which changes only when the namespace was
// deleted and recreated out of band.
func (n *Namespace) Apply(ctx context.Context) (*plan.Result, error) {
	live, err := n.Client.EnsureNamespace(ctx, &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   n.Name,
			Labels: n.Labels,
		},
	})
	if err != nil {
		return nil, err
	}
	return &plan.Result{
		Stdout:   fmt.Sprintf("namespace %s ensured", live.Name),
		Identity: string(live.UID),
	}, nil
}

// Destroy deletes the namespace. Already-gone namespaces are not an error.
func (n *Namespace) Destroy(ctx context.Context) error {
	return n.Client.DeleteNamespace(ctx, n.Name)
}
