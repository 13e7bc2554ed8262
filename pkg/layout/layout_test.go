package layout

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("SUDO_USER", "")

	l := New("", "")

	assert.Equal(t, DefaultPrefix, l.Prefix)
	assert.Equal(t, filepath.Join(DefaultPrefix, "bin"), l.BinDir)
	assert.Equal(t, filepath.Join(DefaultPrefix, "bin", EntryPointName), l.EntryPoint)
	assert.Equal(t, filepath.Join(DefaultPrefix, "bin", CommandName), l.WrapperPath)
	assert.Equal(t, filepath.Join(DefaultPrefix, VenvDirName), l.VenvDir)
	assert.Equal(t, DefaultCommandPath, l.CommandPath)
	assert.Equal(t, filepath.Join(CompletionDir, CommandName), l.CompletionPath)

	assert.True(t, strings.HasSuffix(l.UserConfigRoot, UserConfigDirName))
	assert.Equal(t, filepath.Join(l.UserConfigRoot, "reports"), l.ReportsDir)
	assert.Equal(t, filepath.Join(l.UserConfigRoot, "logs"), l.LogsDir)
	assert.Equal(t, filepath.Join(l.UserConfigRoot, "scenarios"), l.ScenariosDir)
	assert.Equal(t, filepath.Join(l.UserConfigRoot, "install-receipt.yaml"), l.ReceiptPath)
}

func TestNewCustomPrefixAndCommandPath(t *testing.T) {
	t.Setenv("SUDO_USER", "")

	l := New("/usr/local/est", "/usr/bin/est")

	assert.Equal(t, "/usr/local/est", l.Prefix)
	assert.Equal(t, "/usr/local/est/bin/est.py", l.EntryPoint)
	assert.Equal(t, "/usr/bin/est", l.CommandPath)
}

func TestNewIsDeterministic(t *testing.T) {
	t.Setenv("SUDO_USER", "")

	assert.Equal(t, New("", ""), New("", ""))
}

func TestDirLists(t *testing.T) {
	l := New("", "")

	install := l.InstallDirs()
	assert.Equal(t, []string{l.Prefix, l.BinDir, l.LibDir, l.DocsDir, l.ExamplesDir}, install)

	user := l.UserDirs()
	assert.Equal(t, []string{l.UserConfigRoot, l.ReportsDir, l.LogsDir, l.ScenariosDir}, user)
}

func TestInvokingUserHomeFallsBackWithoutSudo(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	l := New("", "")
	assert.Equal(t, filepath.Join(home, UserConfigDirName), l.UserConfigRoot)
}

func TestInvokingUserHomeIgnoresUnknownSudoUser(t *testing.T) {
	// A SUDO_USER with no passwd entry must not produce a fabricated
	// /home/<name> path; the process home is the fallback.
	t.Setenv("SUDO_USER", "est-no-such-user")
	home := t.TempDir()
	t.Setenv("HOME", home)

	l := New("", "")
	assert.Equal(t, filepath.Join(home, UserConfigDirName), l.UserConfigRoot)
}
