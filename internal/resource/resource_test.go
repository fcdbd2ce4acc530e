package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"

	"github.com/sunnydmess/k3strap/internal/k8s/k8stest"
	"github.com/sunnydmess/k3strap/internal/plan"
)

func TestNamespaceIdentityIsLiveUID(t *testing.T) {
	t.Parallel()
	fc := k8stest.NewFakeCluster()
	op := &Namespace{
		Client: fc,
		Name:   "flux-system",
		Labels: map[string]string{"app.kubernetes.io/managed-by": "k3strap"},
	}

	first, err := op.Apply(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, first.Identity)
	assert.Equal(t, string(fc.Namespaces["flux-system"].UID), first.Identity)

	second, err := op.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Identity, second.Identity,
		"re-applying an untouched namespace must not change its identity")

	fc.RecreateNamespace("flux-system")
	third, err := op.Apply(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Identity, third.Identity,
		"a recreated namespace must surface a new identity")
}

func TestNamespaceDestroy(t *testing.T) {
	t.Parallel()
	fc := k8stest.NewFakeCluster()
	op := &Namespace{Client: fc, Name: "media"}

	_, err := op.Apply(context.Background())
	require.NoError(t, err)
	require.Contains(t, fc.Namespaces, "media")

	require.NoError(t, op.Destroy(context.Background()))
	assert.NotContains(t, fc.Namespaces, "media")

	require.NoError(t, op.Destroy(context.Background()), "destroying twice must be fine")
}

func TestSecretIdentitySurvivesDataRotation(t *testing.T) {
	t.Parallel()
	fc := k8stest.NewFakeCluster()
	op := &Secret{
		Client:    fc,
		Namespace: "flux-system",
		Name:      "gitops-deploy-key",
		Data:      map[string][]byte{"identity": []byte("old key")},
	}

	first, err := op.Apply(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, first.Identity)

	op.Data = map[string][]byte{"identity": []byte("rotated key")}
	second, err := op.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Identity, second.Identity,
		"rotating key material must update the secret in place")
	assert.Equal(t, []byte("rotated key"),
		fc.Secrets["flux-system/gitops-deploy-key"].Data["identity"])
}

func TestSecretDefaultsToOpaqueType(t *testing.T) {
	t.Parallel()
	fc := k8stest.NewFakeCluster()
	op := &Secret{Client: fc, Namespace: "flux-system", Name: "gitops-deploy-key"}

	_, err := op.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, corev1.SecretTypeOpaque, fc.Secrets["flux-system/gitops-deploy-key"].Type)
}

func TestPersistentVolumeApply(t *testing.T) {
	t.Parallel()
	fc := k8stest.NewFakeCluster()
	op := &PersistentVolume{
		Client:       fc,
		Name:         "jellyfin-media-pv",
		StorageClass: "local-storage",
		Capacity:     "500Gi",
		AccessModes:  []corev1.PersistentVolumeAccessMode{corev1.ReadWriteMany},
		HostPath:     "/srv/media",
	}

	res, err := op.Apply(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Identity)

	live := fc.Volumes["jellyfin-media-pv"]
	require.NotNil(t, live)
	assert.Equal(t, "local-storage", live.Spec.StorageClassName)
	assert.Equal(t, "/srv/media", live.Spec.HostPath.Path)
	assert.Equal(t, corev1.PersistentVolumeReclaimRetain, live.Spec.PersistentVolumeReclaimPolicy)
	assert.Equal(t, []corev1.PersistentVolumeAccessMode{corev1.ReadWriteMany}, live.Spec.AccessModes)
	assert.Equal(t, "500Gi", live.Spec.Capacity.Storage().String())
}

func TestPersistentVolumeRejectsBadCapacity(t *testing.T) {
	t.Parallel()
	op := &PersistentVolume{
		Client:   k8stest.NewFakeCluster(),
		Name:     "jellyfin-config-pv",
		Capacity: "ten gigs",
	}

	_, err := op.Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid capacity")
}

func TestManifestSetIdentityTracksContent(t *testing.T) {
	t.Parallel()
	fc := k8stest.NewFakeCluster()
	bundle := []byte("apiVersion: v1\nkind: Namespace\nmetadata:\n  name: a\n")

	op := &ManifestSet{Client: fc, Manifests: bundle}
	first, err := op.Apply(context.Background())
	require.NoError(t, err)

	again, err := op.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Identity, again.Identity)

	op.Manifests = []byte("apiVersion: v1\nkind: Namespace\nmetadata:\n  name: b\n")
	changed, err := op.Apply(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Identity, changed.Identity)

	require.Len(t, fc.Applied, 3)
	assert.Equal(t, "k3strap", fc.Applied[0].FieldManager, "field manager defaults")
}

func TestManifestSetDestroy(t *testing.T) {
	t.Parallel()
	fc := k8stest.NewFakeCluster()
	bundle := []byte("apiVersion: v1\nkind: Namespace\nmetadata:\n  name: a\n")
	op := &ManifestSet{Client: fc, Manifests: bundle}

	require.NoError(t, op.Destroy(context.Background()))
	require.Len(t, fc.DeletedBundles, 1)
	assert.Equal(t, bundle, fc.DeletedBundles[0])
}

// scriptedOp records apply/destroy calls into a shared log.
type scriptedOp struct {
	name       string
	identity   string
	applyErr   error
	destroyErr error
	log        *[]string
}

func (o *scriptedOp) Apply(context.Context) (*plan.Result, error) {
	*o.log = append(*o.log, "apply:"+o.name)
	if o.applyErr != nil {
		return nil, o.applyErr
	}
	return &plan.Result{Identity: o.identity, Stdout: o.name + " done"}, nil
}

func (o *scriptedOp) Destroy(context.Context) error {
	*o.log = append(*o.log, "destroy:"+o.name)
	return o.destroyErr
}

func TestSetAppliesInOrderAndJoinsIdentities(t *testing.T) {
	t.Parallel()
	var log []string
	set := &Set{Ops: []plan.Operation{
		&scriptedOp{name: "a", identity: "uid-a", log: &log},
		&scriptedOp{name: "b", identity: "uid-b", log: &log},
	}}

	res, err := set.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"apply:a", "apply:b"}, log)
	assert.Equal(t, "uid-a,uid-b", res.Identity)
	assert.Contains(t, res.Output(), "a done")
	assert.Contains(t, res.Output(), "b done")
}

func TestSetStopsAtFirstApplyFailure(t *testing.T) {
	t.Parallel()
	var log []string
	boom := errors.New("boom")
	set := &Set{Ops: []plan.Operation{
		&scriptedOp{name: "a", identity: "uid-a", log: &log},
		&scriptedOp{name: "b", applyErr: boom, log: &log},
		&scriptedOp{name: "c", identity: "uid-c", log: &log},
	}}

	_, err := set.Apply(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"apply:a", "apply:b"}, log,
		"members after a failure must not apply")
}

func TestSetDestroysInReverseAndCollectsErrors(t *testing.T) {
	t.Parallel()
	var log []string
	boom := errors.New("boom")
	set := &Set{Ops: []plan.Operation{
		&scriptedOp{name: "a", log: &log},
		&scriptedOp{name: "b", destroyErr: boom, log: &log},
		&scriptedOp{name: "c", log: &log},
	}}

	err := set.Destroy(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"destroy:c", "destroy:b", "destroy:a"}, log,
		"a failing member must not stop the rest of the teardown")
}
