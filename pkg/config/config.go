// Package config loads the optional installer configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/logging"
)

// ConfigFileName is the installer config file under the XDG config dir.
const ConfigFileName = "config.toml"

// Config holds the few knobs the installer accepts. Everything else in
// the layout is fixed.
type Config struct {
	// Prefix overrides the install root (default /opt/est)
	Prefix string `toml:"prefix"`

	// CommandPath overrides where the launcher is linked
	CommandPath string `toml:"command_path"`

	// AssumeYes skips the interactive confirmation
	AssumeYes bool `toml:"assume_yes"`
}

// DefaultPath returns the expected config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "est-install", ConfigFileName)
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	logger := logging.GetLogger("config")

	if path == "" {
		path = DefaultPath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No config file, using defaults")
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to read config file %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, errors.ErrConfigParse,
			"failed to parse config file %s", path)
	}

	logger.Debug().Str("path", path).Msg("Loaded installer config")
	return cfg, nil
}
