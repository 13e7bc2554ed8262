// Package layout provides centralized path handling for the installer.
// All paths the engine creates or writes to are computed here once, so
// the orchestrator, verifier and wrapper generator agree on a single
// layout.
package layout

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Fixed names within the install tree and per-user config root.
// IMPORTANT: these are not user-configurable; the wrapper script, the
// completion definition and the generated guides all embed them.
const (
	// DefaultPrefix is the default install root
	DefaultPrefix = "/opt/est"

	// DefaultCommandPath is where the launcher is linked so `est`
	// resolves on PATH without a full path
	DefaultCommandPath = "/usr/local/bin/est"

	// EntryPointName is the application's entry-point artifact
	EntryPointName = "est.py"

	// CommandName is the name the wrapper is invoked by
	CommandName = "est"

	// UserConfigDirName is the per-user config root under $HOME
	UserConfigDirName = ".est"

	// VenvDirName is the isolated environment directory under the prefix
	VenvDirName = "venv"

	// CompletionDir is the privileged bash completion directory
	CompletionDir = "/etc/bash_completion.d"

	// SystemApplicationsDir is the system-wide desktop entry directory
	SystemApplicationsDir = "/usr/share/applications"

	// DesktopEntryName is the desktop menu entry file name
	DesktopEntryName = "est.desktop"
)

// Layout is the fixed set of absolute paths the installer produces.
// Computed once from the prefix and the invoking user's home directory.
type Layout struct {
	Prefix      string
	BinDir      string
	LibDir      string
	DocsDir     string
	ExamplesDir string
	VenvDir     string

	CommandPath string
	EntryPoint  string
	WrapperPath string

	UserConfigRoot string
	ReportsDir     string
	LogsDir        string
	ScenariosDir   string

	CompletionPath    string
	UserDesktopPath   string
	SystemDesktopPath string

	ReceiptPath string
}

// New computes the layout for the given prefix and command link path.
// Empty arguments select the defaults. The per-user config root belongs
// to the invoking user, which under sudo is SUDO_USER's home, not root's.
func New(prefix, commandPath string) Layout {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if commandPath == "" {
		commandPath = DefaultCommandPath
	}

	home := invokingUserHome()
	userConfigRoot := filepath.Join(home, UserConfigDirName)

	binDir := filepath.Join(prefix, "bin")

	return Layout{
		Prefix:      prefix,
		BinDir:      binDir,
		LibDir:      filepath.Join(prefix, "lib"),
		DocsDir:     filepath.Join(prefix, "docs"),
		ExamplesDir: filepath.Join(prefix, "examples"),
		VenvDir:     filepath.Join(prefix, VenvDirName),

		CommandPath: commandPath,
		EntryPoint:  filepath.Join(binDir, EntryPointName),
		WrapperPath: filepath.Join(binDir, CommandName),

		UserConfigRoot: userConfigRoot,
		ReportsDir:     filepath.Join(userConfigRoot, "reports"),
		LogsDir:        filepath.Join(userConfigRoot, "logs"),
		ScenariosDir:   filepath.Join(userConfigRoot, "scenarios"),

		CompletionPath:    filepath.Join(CompletionDir, CommandName),
		UserDesktopPath:   filepath.Join(xdg.DataHome, "applications", DesktopEntryName),
		SystemDesktopPath: filepath.Join(SystemApplicationsDir, DesktopEntryName),

		ReceiptPath: filepath.Join(userConfigRoot, "install-receipt.yaml"),
	}
}

// InstallDirs returns the install-tree directories in creation order.
func (l Layout) InstallDirs() []string {
	return []string{l.Prefix, l.BinDir, l.LibDir, l.DocsDir, l.ExamplesDir}
}

// UserDirs returns the per-user config directories in creation order.
func (l Layout) UserDirs() []string {
	return []string{l.UserConfigRoot, l.ReportsDir, l.LogsDir, l.ScenariosDir}
}

// invokingUserHome resolves the home directory of the user who invoked
// the installer. When running under sudo the real target is SUDO_USER's
// home; falling back to the process user otherwise.
func invokingUserHome() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		if u, err := user.Lookup(sudoUser); err == nil && u.HomeDir != "" {
			return u.HomeDir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
