package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/testutil"
	"github.com/techsky-srt/est-install/pkg/types"
)

func isolatedDecision(dir string) types.IsolationDecision {
	return types.IsolationDecision{
		UseIsolatedEnv: true,
		Reason:         types.ReasonRuntimeTooNew,
		IsolatedEnvDir: dir,
	}
}

func sharedDecision() types.IsolationDecision {
	return types.IsolationDecision{
		UseIsolatedEnv: false,
		Reason:         types.ReasonUserDefault,
	}
}

func TestResolveIsolatedCreatesFreshEnvironment(t *testing.T) {
	venv := filepath.Join(t.TempDir(), "venv")

	// Simulate a stale environment from a previous run.
	require.NoError(t, os.MkdirAll(filepath.Join(venv, "bin"), 0755))
	stale := filepath.Join(venv, "bin", "stale-marker")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	runner := &testutil.FakeRunner{}
	resolver := NewResolver(runner, "python3")

	outcome, err := resolver.Resolve(context.Background(), isolatedDecision(venv), false)
	require.NoError(t, err)
	assert.Equal(t, types.DepIsolatedEnv, outcome.Source)

	// The stale environment must be gone before recreation.
	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr))

	assert.True(t, runner.CalledWith("python3 -m venv "+venv))
	assert.True(t, runner.CalledWith(filepath.Join(venv, "bin", "pip")+" install dnspython"))
}

func TestResolveIsolatedEnvCreationFailureIsFatal(t *testing.T) {
	venv := filepath.Join(t.TempDir(), "venv")

	runner := &testutil.FakeRunner{
		Results: map[string]testutil.ScriptedResult{
			"python3 -m venv": {Fail: true},
		},
	}
	resolver := NewResolver(runner, "python3")

	outcome, err := resolver.Resolve(context.Background(), isolatedDecision(venv), false)
	require.Error(t, err)
	assert.Equal(t, errors.ErrEnvironmentSetup, errors.GetCode(err))
	assert.Equal(t, types.DepUnresolved, outcome.Source)
}

func TestResolveSystemPackageShortCircuitsLadder(t *testing.T) {
	runner := &testutil.FakeRunner{}
	resolver := NewResolver(runner, "python3")

	outcome, err := resolver.Resolve(context.Background(), sharedDecision(), true)
	require.NoError(t, err)
	assert.Equal(t, types.DepSystemPackage, outcome.Source)

	// Cheapest satisfied option wins: no user-scope install attempted.
	assert.Empty(t, runner.Calls)
}

func TestResolveSharedRuntimeLadderOrder(t *testing.T) {
	tests := []struct {
		name       string
		results    map[string]testutil.ScriptedResult
		wantSource types.DependencySource
	}{
		{
			name:       "pip_user_succeeds_first",
			results:    nil,
			wantSource: types.DepUserSitePackages,
		},
		{
			name: "falls_back_to_break_system_packages",
			results: map[string]testutil.ScriptedResult{
				"python3 -m pip install --user dnspython": {Fail: true},
			},
			wantSource: types.DepUserSitePackagesForce,
		},
		{
			name: "falls_back_to_importable_probe",
			results: map[string]testutil.ScriptedResult{
				"python3 -m pip install --user": {Fail: true},
			},
			wantSource: types.DepSystemPackage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &testutil.FakeRunner{Results: tt.results}
			resolver := NewResolver(runner, "python3")

			outcome, err := resolver.Resolve(context.Background(), sharedDecision(), false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, outcome.Source)
		})
	}
}

func TestResolveExhaustedLadderIsFatal(t *testing.T) {
	runner := &testutil.FakeRunner{
		Results: map[string]testutil.ScriptedResult{
			"python3": {Fail: true},
		},
	}
	resolver := NewResolver(runner, "python3")

	outcome, err := resolver.Resolve(context.Background(), sharedDecision(), false)
	require.Error(t, err)
	assert.Equal(t, errors.ErrDependencyUnresolved, errors.GetCode(err))
	assert.Equal(t, types.DepUnresolved, outcome.Source)

	// The three manual options are named in the remediation text.
	assert.Len(t, errors.GetRemedy(err), 3)
}

func TestEnterIsolatedEnvRestores(t *testing.T) {
	t.Setenv("VIRTUAL_ENV", "")
	os.Unsetenv("VIRTUAL_ENV")
	t.Setenv("PATH", "/usr/bin")

	restore := EnterIsolatedEnv("/opt/est/venv")
	assert.Equal(t, "/opt/est/venv", os.Getenv("VIRTUAL_ENV"))
	assert.Equal(t, "/opt/est/venv/bin:/usr/bin", os.Getenv("PATH"))

	restore()
	_, set := os.LookupEnv("VIRTUAL_ENV")
	assert.False(t, set)
	assert.Equal(t, "/usr/bin", os.Getenv("PATH"))
}
