package resource

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/sunnydmess/k3strap/internal/k8s"
	"github.com/sunnydmess/k3strap/internal/plan"
)

// ManifestSet applies a multi-document YAML bundle with Server-Side Apply.
// There is no single live object to take a UID from, so the identity is a
// digest of the manifest content.
type ManifestSet struct {
	Client       k8s.Client
	Manifests    []byte
	FieldManager string
}

// Apply server-side applies every document in the bundle.
func (m *ManifestSet) Apply(ctx context.Context) (*plan.Result, error) {
	fieldManager := m.FieldManager
	if fieldManager == "" {
		fieldManager = "k3strap"
	}

	if err := m.Client.ApplyManifests(ctx, m.Manifests, fieldManager); err != nil {
		return nil, err
	}

	sum := blake3.Sum256(m.Manifests)
	return &plan.Result{
		Stdout:   fmt.Sprintf("manifests applied (field manager %s)", fieldManager),
		Identity: hex.EncodeToString(sum[:]),
	}, nil
}

// Destroy deletes the bundle's objects in reverse document order,
// continuing past individual failures.
func (m *ManifestSet) Destroy(ctx context.Context) error {
	return m.Client.DeleteManifests(ctx, m.Manifests)
}
