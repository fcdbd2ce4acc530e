package resource

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sunnydmess/k3strap/internal/k8s"
	"github.com/sunnydmess/k3strap/internal/plan"
)

// Secret reconciles a single secret. Drifted data is written back into the
// existing object so the UID, and with it the node identity, only changes
// when the secret was actually recreated.
type Secret struct {
	Client    k8s.Client
	Namespace string
	Name      string
	Type      corev1.SecretType
	Data      map[string][]byte
	Labels    map[string]string
}

// Apply ensures the secret exists with the desired data.
func (s *Secret) Apply(ctx context.Context) (*plan.Result, error) {
	secretType := s.Type
	if secretType == "" {
		secretType = corev1.SecretTypeOpaque
	}

	live, err := s.Client.EnsureSecret(ctx, &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name,
			Namespace: s.Namespace,
			Labels:    s.Labels,
		},
		Type: secretType,
		Data: s.Data,
	})
	if err != nil {
		return nil, err
	}
	return &plan.Result{
		Stdout:   fmt.Sprintf("secret %s/%s ensured", live.Namespace, live.Name),
		Identity: string(live.UID),
	}, nil
}

// Destroy deletes the secret. Already-gone secrets are not an error.
func (s *Secret) Destroy(ctx context.Context) error {
	return s.Client.DeleteSecret(ctx, s.Namespace, s.Name)
}
