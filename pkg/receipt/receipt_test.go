package receipt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/techsky-srt/est-install/pkg/types"
)

func TestBuildAndWrite(t *testing.T) {
	profile := types.HostProfile{
		OSFamily:       types.OSLinux,
		DistroTag:      types.DistroTagKali,
		PackageManager: types.PkgApt,
		Runtime:        types.RuntimeVersion{Major: 3, Minor: 12},
	}
	decision := types.IsolationDecision{
		UseIsolatedEnv: true,
		Reason:         types.ReasonDistroPolicy,
		IsolatedEnvDir: "/opt/est/venv",
	}
	outcome := types.DependencyOutcome{Source: types.DepIsolatedEnv}
	report := types.VerificationReport{Checks: []types.CheckResult{
		{Name: "command-on-path", Passed: true},
		{Name: "list-subcommand", Passed: false, Advisory: true},
	}}

	r := Build(profile, decision, outcome, report)
	assert.Equal(t, "kali", r.DistroTag)
	assert.Equal(t, "3.12", r.Runtime)
	assert.True(t, r.Isolated)
	assert.Equal(t, string(types.ReasonDistroPolicy), r.IsolationReason)
	assert.Equal(t, string(types.DepIsolatedEnv), r.DependencySource)
	require.Len(t, r.Checks, 2)
	assert.False(t, r.InstalledAt.IsZero())

	path := filepath.Join(t.TempDir(), "install-receipt.yaml")
	require.NoError(t, Write(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Receipt
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, r.DependencySource, loaded.DependencySource)
	assert.Equal(t, r.Checks, loaded.Checks)
}
