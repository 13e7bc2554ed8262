// Package pkgmgr maps the installer's two abstract operations, installing
// the base toolchain and installing the resolver library, onto the
// concrete command sequence of whichever package manager was detected.
//
// The caller is assumed to already hold whatever privilege the system
// manager needs; nothing here escalates.
package pkgmgr

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/techsky-srt/est-install/pkg/command"
	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/logging"
	"github.com/techsky-srt/est-install/pkg/types"
)

// Manager exposes the two abstract operations the engine needs from a
// system package manager.
type Manager interface {
	Kind() types.PackageManagerKind

	// InstallToolchain installs the compiler/headers, packaging tools,
	// telnet, dig, scp and git. Failures are fatal; the toolchain is a
	// hard requirement of the installed application's workflows.
	InstallToolchain(ctx context.Context) error

	// InstallResolverLibrary attempts to satisfy the DNS resolver
	// dependency from the system repositories. Returns true on success.
	// Failure is not fatal here; the fallback ladder takes over.
	InstallResolverLibrary(ctx context.Context) bool
}

// commandSet is the concrete command table for one package manager.
type commandSet struct {
	kind      types.PackageManagerKind
	update    []string
	toolchain []string
	resolver  []string
}

var commandSets = map[types.PackageManagerKind]commandSet{
	types.PkgApt: {
		kind:      types.PkgApt,
		update:    []string{"apt-get", "update", "-qq"},
		toolchain: []string{"apt-get", "install", "-y", "build-essential", "python3-pip", "python3-venv", "telnet", "dnsutils", "openssh-client", "git"},
		resolver:  []string{"apt-get", "install", "-y", "python3-dnspython"},
	},
	types.PkgDnf: {
		kind:      types.PkgDnf,
		toolchain: []string{"dnf", "install", "-y", "gcc", "python3-pip", "python3-virtualenv", "telnet", "bind-utils", "openssh-clients", "git"},
		resolver:  []string{"dnf", "install", "-y", "python3-dns"},
	},
	types.PkgYum: {
		kind:      types.PkgYum,
		toolchain: []string{"yum", "install", "-y", "gcc", "python3-pip", "python3-virtualenv", "telnet", "bind-utils", "openssh-clients", "git"},
		resolver:  []string{"yum", "install", "-y", "python3-dns"},
	},
	types.PkgPacman: {
		kind:      types.PkgPacman,
		update:    []string{"pacman", "-Sy", "--noconfirm"},
		toolchain: []string{"pacman", "-S", "--noconfirm", "--needed", "base-devel", "python-pip", "inetutils", "bind", "openssh", "git"},
		resolver:  []string{"pacman", "-S", "--noconfirm", "--needed", "python-dnspython"},
	},
	types.PkgZypper: {
		kind:      types.PkgZypper,
		toolchain: []string{"zypper", "--non-interactive", "install", "gcc", "python3-pip", "python3-virtualenv", "telnet", "bind-utils", "openssh-clients", "git"},
		resolver:  []string{"zypper", "--non-interactive", "install", "python3-dnspython"},
	},
	types.PkgBrew: {
		kind:      types.PkgBrew,
		toolchain: []string{"brew", "install", "python", "telnet", "bind", "git"},
		// Homebrew has no dnspython formula worth relying on; the
		// ladder's pip strategies handle it.
	},
}

type systemManager struct {
	set    commandSet
	runner command.Runner
	logger zerolog.Logger
}

// manualManager is the degraded mode when no known package manager was
// detected. It never aborts the run; dependencies must be installed by
// hand and the ladder decides whether that is fatal.
type manualManager struct {
	logger zerolog.Logger
}

// For returns the Manager for the detected kind. An unknown kind yields
// the manual manager, not an error.
func For(kind types.PackageManagerKind, runner command.Runner) Manager {
	set, ok := commandSets[kind]
	if !ok {
		return &manualManager{logger: logging.GetLogger("pkgmgr.manual")}
	}
	return &systemManager{
		set:    set,
		runner: runner,
		logger: logging.GetLogger("pkgmgr." + string(kind)),
	}
}

func (m *systemManager) Kind() types.PackageManagerKind {
	return m.set.kind
}

func (m *systemManager) InstallToolchain(ctx context.Context) error {
	if len(m.set.update) > 0 {
		if _, err := m.runner.Run(ctx, m.set.update[0], m.set.update[1:]...); err != nil {
			// A stale package index is recoverable; the install itself
			// decides whether the mirrors are actually broken.
			m.logger.Warn().Err(err).Msg("Package index update failed, continuing")
		}
	}

	m.logger.Info().Msg("Installing base toolchain")
	if _, err := m.runner.Run(ctx, m.set.toolchain[0], m.set.toolchain[1:]...); err != nil {
		return errors.Wrapf(err, errors.ErrCommandRun,
			"toolchain installation failed via %s", m.set.kind).
			WithRemedy(shellJoin(m.set.toolchain))
	}
	return nil
}

func (m *systemManager) InstallResolverLibrary(ctx context.Context) bool {
	if len(m.set.resolver) == 0 {
		m.logger.Debug().Msg("No system resolver package for this manager")
		return false
	}

	m.logger.Info().Msg("Installing DNS resolver library from system repositories")
	if _, err := m.runner.Run(ctx, m.set.resolver[0], m.set.resolver[1:]...); err != nil {
		m.logger.Warn().Err(err).Msg("System resolver package unavailable")
		return false
	}
	return true
}

func (m *manualManager) Kind() types.PackageManagerKind {
	return types.PkgUnknown
}

func (m *manualManager) InstallToolchain(ctx context.Context) error {
	m.logger.Warn().Msg("No known package manager; install the toolchain manually (gcc, pip, telnet, dig, scp, git)")
	return nil
}

func (m *manualManager) InstallResolverLibrary(ctx context.Context) bool {
	m.logger.Warn().Msg("No known package manager; system resolver package not installed")
	return false
}

func shellJoin(argv []string) string {
	return strings.Join(argv, " ")
}
