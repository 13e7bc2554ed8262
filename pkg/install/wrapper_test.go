package install

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techsky-srt/est-install/pkg/types"
)

func TestWrapperContentVariants(t *testing.T) {
	l := testLayout(t.TempDir())

	isolated := types.IsolationDecision{
		UseIsolatedEnv: true,
		Reason:         types.ReasonRuntimeTooNew,
		IsolatedEnvDir: l.VenvDir,
	}
	shared := types.IsolationDecision{UseIsolatedEnv: false, Reason: types.ReasonUserDefault}

	venvScript := WrapperContent(l, isolated)
	systemScript := WrapperContent(l, shared)

	// Isolated variant activates the environment and guards against it
	// being missing, with a remedial command.
	assert.Contains(t, venvScript, l.VenvDir)
	assert.Contains(t, venvScript, "bin/activate")
	assert.Contains(t, venvScript, "sudo est-install")

	// Shared variant extends the library path instead.
	assert.Contains(t, systemScript, "PYTHONPATH")
	assert.Contains(t, systemScript, "--user-site")
	assert.NotContains(t, systemScript, "activate")

	// Both guard the entry point and forward arguments unchanged.
	for _, script := range []string{venvScript, systemScript} {
		assert.Contains(t, script, l.EntryPoint)
		assert.Contains(t, script, `"$EST_PY" "$@"`)
		assert.Contains(t, script, "exit 1")
	}
}

func TestWrapperContentIsDeterministic(t *testing.T) {
	l := testLayout(t.TempDir())
	decision := types.IsolationDecision{
		UseIsolatedEnv: true,
		Reason:         types.ReasonDistroPolicy,
		IsolatedEnvDir: l.VenvDir,
	}
	assert.Equal(t, WrapperContent(l, decision), WrapperContent(l, decision))
}

func TestRerunProducesByteIdenticalWrapper(t *testing.T) {
	o, l := newTestOrchestrator(t, true)

	require.NoError(t, o.Run())
	first, err := os.ReadFile(l.WrapperPath)
	require.NoError(t, err)

	require.NoError(t, o.Run())
	second, err := os.ReadFile(l.WrapperPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	info, err := os.Stat(l.WrapperPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}
