package detect

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

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestDetector(runner *testutil.FakeRunner, osRelease string) *Detector {
	d := New(runner)
	d.OSReleasePath = osRelease
	d.GOOS = "linux"
	return d
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		pythonOut   testutil.ScriptedResult
		paths       map[string]string
		osRelease   string
		wantErr     errors.ErrorCode
		wantProfile types.HostProfile
	}{
		{
			name:      "debian_with_apt",
			pythonOut: testutil.ScriptedResult{Stdout: "Python 3.11.2\n"},
			paths: map[string]string{
				"python3": "/usr/bin/python3",
				"apt-get": "/usr/bin/apt-get",
			},
			osRelease: "ID=debian\nID_LIKE=\n",
			wantProfile: types.HostProfile{
				OSFamily:       types.OSLinux,
				PackageManager: types.PkgApt,
				Runtime:        types.RuntimeVersion{Major: 3, Minor: 11},
			},
		},
		{
			name:      "kali_tag_detected",
			pythonOut: testutil.ScriptedResult{Stdout: "Python 3.12.4\n"},
			paths: map[string]string{
				"python3": "/usr/bin/python3",
				"apt-get": "/usr/bin/apt-get",
			},
			osRelease: "ID=kali\nID_LIKE=debian\n",
			wantProfile: types.HostProfile{
				OSFamily:       types.OSLinux,
				DistroTag:      types.DistroTagKali,
				PackageManager: types.PkgApt,
				Runtime:        types.RuntimeVersion{Major: 3, Minor: 12},
			},
		},
		{
			name: "version_banner_on_stderr",
			pythonOut: testutil.ScriptedResult{
				Stderr: "Python 3.8.10\n",
			},
			paths: map[string]string{
				"python3": "/usr/bin/python3",
				"dnf":     "/usr/bin/dnf",
			},
			osRelease: "ID=fedora\n",
			wantProfile: types.HostProfile{
				OSFamily:       types.OSLinux,
				PackageManager: types.PkgDnf,
				Runtime:        types.RuntimeVersion{Major: 3, Minor: 8},
			},
		},
		{
			name:      "no_package_manager_is_not_fatal",
			pythonOut: testutil.ScriptedResult{Stdout: "Python 3.10.0\n"},
			paths: map[string]string{
				"python3": "/usr/bin/python3",
			},
			osRelease: "ID=gentoo\n",
			wantProfile: types.HostProfile{
				OSFamily:       types.OSLinux,
				PackageManager: types.PkgUnknown,
				Runtime:        types.RuntimeVersion{Major: 3, Minor: 10},
			},
		},
		{
			name:      "runtime_below_minimum",
			pythonOut: testutil.ScriptedResult{Stdout: "Python 3.6.9\n"},
			paths: map[string]string{
				"python3": "/usr/bin/python3",
				"apt-get": "/usr/bin/apt-get",
			},
			osRelease: "ID=ubuntu\n",
			wantErr:   errors.ErrUnsupportedRuntime,
		},
		{
			name:      "unparseable_version",
			pythonOut: testutil.ScriptedResult{Stdout: "pyenv: python3 not configured\n"},
			paths: map[string]string{
				"python3": "/usr/bin/python3",
				"apt-get": "/usr/bin/apt-get",
			},
			osRelease: "ID=ubuntu\n",
			wantErr:   errors.ErrUnsupportedRuntime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &testutil.FakeRunner{
				Paths: tt.paths,
				Results: map[string]testutil.ScriptedResult{
					"python3 --version": tt.pythonOut,
				},
			}
			d := newTestDetector(runner, writeOSRelease(t, tt.osRelease))

			profile, err := d.Detect(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, errors.GetCode(err))
				// Fatal runtime errors name a remedy.
				assert.NotEmpty(t, errors.GetRemedy(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProfile, profile)
		})
	}
}

func TestDetectPythonMissing(t *testing.T) {
	runner := &testutil.FakeRunner{Paths: map[string]string{"apt-get": "/usr/bin/apt-get"}}
	d := newTestDetector(runner, writeOSRelease(t, "ID=debian\n"))

	_, err := d.Detect(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrUnsupportedRuntime, errors.GetCode(err))
}

func TestDetectMissingOSReleaseMeansNoTag(t *testing.T) {
	runner := &testutil.FakeRunner{
		Paths: map[string]string{"python3": "/usr/bin/python3", "brew": "/opt/homebrew/bin/brew"},
		Results: map[string]testutil.ScriptedResult{
			"python3 --version": {Stdout: "Python 3.12.1\n"},
		},
	}
	d := New(runner)
	d.OSReleasePath = filepath.Join(t.TempDir(), "missing")
	d.GOOS = "darwin"

	profile, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OSDarwin, profile.OSFamily)
	assert.Empty(t, profile.DistroTag)
	assert.Equal(t, types.PkgBrew, profile.PackageManager)
}
