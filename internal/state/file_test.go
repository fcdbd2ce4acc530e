package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnydmess/k3strap/internal/plan"
)

func TestFileStoreLoadMissingFileReturnsFreshDocument(t *testing.T) {
	t.Parallel()
	store := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
	assert.NotEmpty(t, doc.RunID)
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	store := NewFileStore(path)
	ctx := context.Background()

	doc := NewDocument()
	doc.Record("install-runtime", plan.NodeMemory{
		Fingerprint: "fp-install",
		Output:      "k3s v1.28.5+k3s1 installed",
		Succeeded:   true,
		CompletedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	})
	doc.Record("gitops-namespace", plan.NodeMemory{
		Identity:    "ns-uid-1",
		Succeeded:   true,
		CompletedAt: time.Date(2026, 3, 14, 9, 1, 0, 0, time.UTC),
	})
	doc.Outputs["kubeconfig_path"] = "/home/sunny/.kube/config"

	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	install, ok := loaded.Lookup("install-runtime")
	require.True(t, ok)
	assert.Equal(t, "fp-install", install.Fingerprint)
	assert.Equal(t, "k3s v1.28.5+k3s1 installed", install.Output)
	assert.True(t, install.Succeeded)

	ns, ok := loaded.Lookup("gitops-namespace")
	require.True(t, ok)
	assert.Equal(t, "ns-uid-1", ns.Identity)

	assert.Equal(t, "/home/sunny/.kube/config", loaded.Outputs["kubeconfig_path"])
	assert.Equal(t, doc.RunID, loaded.RunID)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestFileStoreSaveRestrictsPermissions(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.yaml")
	store := NewFileStore(path)

	require.NoError(t, store.Save(context.Background(), NewDocument()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(),
		"state can hold output fragments, keep it private")
}

func TestFileStoreSaveReplacesAtomically(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	store := NewFileStore(path)
	ctx := context.Background()

	first := NewDocument()
	first.Record("a", plan.NodeMemory{Fingerprint: "one", Succeeded: true})
	require.NoError(t, store.Save(ctx, first))

	second := NewDocument()
	second.Record("a", plan.NodeMemory{Fingerprint: "two", Succeeded: true})
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	got, ok := loaded.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "two", got.Fingerprint)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not pile up next to the state")
}

func TestFileStoreLoadRejectsCorruptYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse state file")
}

func TestFileStoreLoadRejectsNewerVersion(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 99\nrun_id: abc\n"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 99")
}

func TestNewFileStoreDefaultsPath(t *testing.T) {
	t.Parallel()
	store := NewFileStore("")
	assert.Equal(t, DefaultPath, store.Path)
}
