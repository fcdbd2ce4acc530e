package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapConfirm(t *testing.T, answer bool) {
	t.Helper()
	orig := confirmDestroy
	t.Cleanup(func() { confirmDestroy = orig })
	confirmDestroy = func(string) (bool, error) { return answer, nil }
}

func TestDestroy(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, Apply(context.Background(), ApplyOptions{NoTUI: true}))
	require.NoError(t, Destroy(context.Background(), DestroyOptions{Yes: true}))

	assert.Equal(t, 1, f.runner.countMatching("k3s-uninstall.sh"), "uninstaller should run")
	assert.NotContains(t, f.fc.Namespaces, "flux-system")
}

func TestDestroyConfirmDeclined(t *testing.T) {
	f := newFixture(t)
	swapConfirm(t, false)

	require.NoError(t, Destroy(context.Background(), DestroyOptions{}))
	assert.Empty(t, f.runner.calls, "declined confirmation must not tear anything down")
}

func TestDestroyContinuesPastStepFailure(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, Apply(context.Background(), ApplyOptions{NoTUI: true}))

	// A failing delete action must not abort the rest of the teardown, and
	// destroy still reports success.
	f.runner.fail["kubectl delete"] = errors.New("connection refused")
	require.NoError(t, Destroy(context.Background(), DestroyOptions{Yes: true}))

	assert.Equal(t, 1, f.runner.countMatching("k3s-uninstall.sh"), "teardown must continue past failures")
}
