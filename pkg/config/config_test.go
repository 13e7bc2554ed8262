package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techsky-srt/est-install/pkg/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", ConfigFileName))
	require.NoError(t, err)
	assert.Empty(t, cfg.Prefix)
	assert.Empty(t, cfg.CommandPath)
	assert.False(t, cfg.AssumeYes)
}

func TestLoadParsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
prefix = "/usr/local/est"
command_path = "/usr/bin/est"
assume_yes = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/est", cfg.Prefix)
	assert.Equal(t, "/usr/bin/est", cfg.CommandPath)
	assert.True(t, cfg.AssumeYes)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("prefix = [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigParse, errors.GetCode(err))
}
