// Package install sequences the filesystem side of the installation:
// directory scaffolding, payload placement, wrapper generation and the
// best-effort auxiliary integrations. The first fatal step aborts the
// whole run; auxiliary sub-steps degrade to warnings.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/techsky-srt/est-install/pkg/cleanup"
	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/layout"
	"github.com/techsky-srt/est-install/pkg/logging"
	"github.com/techsky-srt/est-install/pkg/types"
)

// Orchestrator performs the install steps in order. It is constructed
// only after the isolation decision and dependency outcome are known;
// wrapper correctness depends on both.
type Orchestrator struct {
	Layout    layout.Layout
	Decision  types.IsolationDecision
	Outcome   types.DependencyOutcome
	SourceDir string

	cleanup  *cleanup.Handler
	logger   zerolog.Logger
	warnings []string
}

// New creates an Orchestrator. sourceDir is the working directory that
// holds the application artifacts to install.
func New(l layout.Layout, decision types.IsolationDecision, outcome types.DependencyOutcome, sourceDir string, cl *cleanup.Handler) *Orchestrator {
	return &Orchestrator{
		Layout:    l,
		Decision:  decision,
		Outcome:   outcome,
		SourceDir: sourceDir,
		cleanup:   cl,
		logger:    logging.GetLogger("install"),
	}
}

// Warnings returns the non-fatal integration warnings collected so far.
func (o *Orchestrator) Warnings() []string {
	return o.warnings
}

// Run executes the orchestration sequence. The source-artifact check
// runs first so a missing payload aborts before any directory under the
// install root is created.
func (o *Orchestrator) Run() error {
	if err := o.PreflightArtifacts(); err != nil {
		return err
	}
	if err := o.Scaffold(); err != nil {
		return err
	}
	if err := o.PlacePayload(); err != nil {
		return err
	}
	if err := o.GenerateWrapper(); err != nil {
		return err
	}
	o.Integrate()
	return nil
}

// Scaffold creates the install tree and the per-user config root.
// Existing directories are reused; only the policy layer ever removes
// the isolated environment directory.
func (o *Orchestrator) Scaffold() error {
	for _, dir := range o.Layout.InstallDirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create %s", dir).
				WithRemedy("sudo mkdir -p " + dir)
		}
	}

	for _, dir := range o.Layout.UserDirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create %s", dir).
				WithRemedy("mkdir -p " + dir)
		}
	}

	if err := o.reassignOwnership(); err != nil {
		return err
	}

	o.logger.Info().Str("prefix", o.Layout.Prefix).Msg("Directory scaffolding complete")
	return nil
}

// reassignOwnership hands the install tree and the user config root back
// to the invoking user. Installation may run under sudo; subsequent use
// of the tool must not.
func (o *Orchestrator) reassignOwnership() error {
	uid, gid, ok := InvokingUser()
	if !ok {
		o.logger.Debug().Msg("Not running under sudo, ownership left as-is")
		return nil
	}

	for _, root := range []string{o.Layout.Prefix, o.Layout.UserConfigRoot} {
		err := filepath.WalkDir(root, func(path string, _ os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			return os.Lchown(path, uid, gid)
		})
		if err != nil {
			return errors.Wrapf(err, errors.ErrPermission,
				"failed to reassign ownership of %s", root).
				WithRemedy("sudo chown -R " + strconv.Itoa(uid) + ":" + strconv.Itoa(gid) + " " + root)
		}
	}

	o.logger.Debug().Int("uid", uid).Int("gid", gid).Msg("Ownership reassigned to invoking user")
	return nil
}

// Integrate runs the auxiliary steps. Each is independently best-effort;
// failures become IntegrationWarnings and never abort the run.
func (o *Orchestrator) Integrate() {
	o.copyOptionalDocs()
	o.copyExamples()
	o.writeGuides()
	o.writeCompletion()
	o.writeDesktopEntries()
}

func (o *Orchestrator) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	o.warnings = append(o.warnings, msg)
	o.logger.Warn().Msg(msg)
}

// InvokingUser returns the uid/gid of the user who ran sudo, when the
// process is privileged and the sudo environment is present. Files the
// installer writes into the user's config root after scaffolding should
// be handed to this user.
func InvokingUser() (int, int, bool) {
	if os.Geteuid() != 0 {
		return 0, 0, false
	}
	uidStr := os.Getenv("SUDO_UID")
	gidStr := os.Getenv("SUDO_GID")
	if uidStr == "" || gidStr == "" {
		return 0, 0, false
	}
	uid, err := strconv.Atoi(uidStr)
	if err != nil {
		return 0, 0, false
	}
	gid, err := strconv.Atoi(gidStr)
	if err != nil {
		return 0, 0, false
	}
	return uid, gid, true
}
