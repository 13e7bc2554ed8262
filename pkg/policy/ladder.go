package policy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/techsky-srt/est-install/pkg/command"
	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/logging"
	"github.com/techsky-srt/est-install/pkg/types"
)

// ResolverPackage is the one hard runtime dependency of the installed
// application.
const ResolverPackage = "dnspython"

// Resolver executes the dependency-installation fallback ladder. The
// ladder order is load-bearing: the least invasive option expected to
// work for the host profile is always tried first, and an exhausted
// ladder is fatal in the non-isolated branch.
type Resolver struct {
	runner    command.Runner
	pythonBin string
	logger    zerolog.Logger
}

// strategy is one rung of the ladder.
type strategy struct {
	name   string
	source types.DependencySource
	run    func(ctx context.Context) error
}

// NewResolver creates a Resolver using the given runner and interpreter.
func NewResolver(runner command.Runner, pythonBin string) *Resolver {
	return &Resolver{
		runner:    runner,
		pythonBin: pythonBin,
		logger:    logging.GetLogger("policy.ladder"),
	}
}

// Resolve satisfies the resolver-library dependency according to the
// decision. systemInstalled reports whether the system package manager
// already satisfied it; in the non-isolated branch that short-circuits
// the ladder entirely, no user-scope install is attempted.
func (r *Resolver) Resolve(ctx context.Context, decision types.IsolationDecision, systemInstalled bool) (types.DependencyOutcome, error) {
	if decision.UseIsolatedEnv {
		if err := r.provisionIsolatedEnv(ctx, decision.IsolatedEnvDir); err != nil {
			return types.DependencyOutcome{Source: types.DepUnresolved}, err
		}
		return types.DependencyOutcome{Source: types.DepIsolatedEnv}, nil
	}

	if systemInstalled {
		r.logger.Info().Msg("Resolver library satisfied by system package, skipping ladder")
		return types.DependencyOutcome{Source: types.DepSystemPackage}, nil
	}

	for _, s := range r.sharedRuntimeLadder() {
		r.logger.Info().Str("strategy", s.name).Msg("Attempting dependency install")
		if err := s.run(ctx); err != nil {
			r.logger.Warn().Err(err).Str("strategy", s.name).Msg("Strategy failed, trying next")
			continue
		}
		r.logger.Info().Str("strategy", s.name).Msg("Dependency satisfied")
		return types.DependencyOutcome{Source: s.source}, nil
	}

	return types.DependencyOutcome{Source: types.DepUnresolved},
		errors.Newf(errors.ErrDependencyUnresolved,
			"could not install %s with any available method", ResolverPackage).
			WithRemedy(
				"sudo apt-get install python3-dnspython",
				"python3 -m pip install --user "+ResolverPackage,
				"python3 -m venv ~/.est-venv && ~/.est-venv/bin/pip install "+ResolverPackage,
			)
}

// provisionIsolatedEnv removes any stale environment and builds a fresh
// one with the resolver library inside. This path cannot fail softly.
func (r *Resolver) provisionIsolatedEnv(ctx context.Context, venvDir string) error {
	if venvDir == "" {
		return errors.New(errors.ErrInternal, "isolation requested without an environment path")
	}

	if _, err := os.Stat(venvDir); err == nil {
		r.logger.Info().Str("dir", venvDir).Msg("Removing stale isolated environment")
		if err := os.RemoveAll(venvDir); err != nil {
			return errors.Wrapf(err, errors.ErrEnvironmentSetup,
				"failed to remove stale environment at %s", venvDir).
				WithRemedy("sudo rm -rf " + venvDir)
		}
	}

	if err := os.MkdirAll(filepath.Dir(venvDir), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrEnvironmentSetup,
			"failed to create parent directory for %s", venvDir).
			WithRemedy("sudo mkdir -p " + filepath.Dir(venvDir))
	}

	r.logger.Info().Str("dir", venvDir).Msg("Creating isolated environment")
	if _, err := r.runner.Run(ctx, r.pythonBin, "-m", "venv", venvDir); err != nil {
		return errors.Wrapf(err, errors.ErrEnvironmentSetup,
			"failed to create isolated environment at %s", venvDir).
			WithRemedy("sudo apt-get install python3-venv")
	}

	venvPip := filepath.Join(venvDir, "bin", "pip")
	if _, err := r.runner.Run(ctx, venvPip, "install", "--upgrade", "pip"); err != nil {
		// pip bootstrap upgrades are best effort; old pip still installs
		r.logger.Warn().Err(err).Msg("pip self-upgrade failed, continuing")
	}

	if _, err := r.runner.Run(ctx, venvPip, "install", ResolverPackage); err != nil {
		return errors.Wrapf(err, errors.ErrEnvironmentSetup,
			"failed to install %s into isolated environment", ResolverPackage).
			WithRemedy(venvPip + " install " + ResolverPackage)
	}

	return nil
}

// sharedRuntimeLadder is the non-isolated branch: user-scope install,
// then the explicit override of system-managed protection, then a probe
// for a copy that is already importable.
func (r *Resolver) sharedRuntimeLadder() []strategy {
	return []strategy{
		{
			name:   "pip-user",
			source: types.DepUserSitePackages,
			run: func(ctx context.Context) error {
				_, err := r.runner.Run(ctx, r.pythonBin, "-m", "pip", "install", "--user", ResolverPackage)
				return err
			},
		},
		{
			name:   "pip-user-break-system-packages",
			source: types.DepUserSitePackagesForce,
			run: func(ctx context.Context) error {
				_, err := r.runner.Run(ctx, r.pythonBin, "-m", "pip", "install", "--user", "--break-system-packages", ResolverPackage)
				return err
			},
		},
		{
			name:   "already-importable",
			source: types.DepSystemPackage,
			run: func(ctx context.Context) error {
				_, err := r.runner.Run(ctx, r.pythonBin, "-c", "import dns.resolver")
				return err
			},
		},
	}
}
