// Package verify re-probes the installed state after orchestration and
// reports pass/fail per check. It decides the final exit code and
// message; nothing here is persisted.
package verify

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/techsky-srt/est-install/pkg/command"
	"github.com/techsky-srt/est-install/pkg/layout"
	"github.com/techsky-srt/est-install/pkg/logging"
	"github.com/techsky-srt/est-install/pkg/types"
)

// Check names, stable for tests and for the receipt.
const (
	CheckCommandOnPath  = "command-on-path"
	CheckHelpFlag       = "help-flag"
	CheckUserConfigRoot = "user-config-root"
	CheckIsolatedEnv    = "isolated-env"
	CheckListSubcommand = "list-subcommand"
)

// Verifier runs the post-install checks.
type Verifier struct {
	Runner   command.Runner
	Layout   layout.Layout
	Decision types.IsolationDecision
	logger   zerolog.Logger
}

// New creates a Verifier.
func New(runner command.Runner, l layout.Layout, decision types.IsolationDecision) *Verifier {
	return &Verifier{
		Runner:   runner,
		Layout:   l,
		Decision: decision,
		logger:   logging.GetLogger("verify"),
	}
}

// Run executes the five checks in order. The list-subcommand check is
// advisory: it exercises the wrapped application's own runtime, which
// this engine does not control.
func (v *Verifier) Run(ctx context.Context) types.VerificationReport {
	var report types.VerificationReport

	report.Checks = append(report.Checks, v.commandOnPath())
	report.Checks = append(report.Checks, v.helpFlag(ctx))
	report.Checks = append(report.Checks, v.userConfigRoot())
	if v.Decision.UseIsolatedEnv {
		report.Checks = append(report.Checks, v.isolatedEnv())
	}
	report.Checks = append(report.Checks, v.listSubcommand(ctx))

	for _, c := range report.Checks {
		v.logger.Info().
			Str("check", c.Name).
			Bool("passed", c.Passed).
			Bool("advisory", c.Advisory).
			Msg("Verification check")
	}

	return report
}

func (v *Verifier) commandOnPath() types.CheckResult {
	path, err := v.Runner.LookPath(layout.CommandName)
	if err != nil {
		return types.CheckResult{Name: CheckCommandOnPath, Detail: "est not found on PATH"}
	}
	return types.CheckResult{Name: CheckCommandOnPath, Passed: true, Detail: path}
}

func (v *Verifier) helpFlag(ctx context.Context) types.CheckResult {
	if _, err := v.Runner.Run(ctx, layout.CommandName, "--help"); err != nil {
		return types.CheckResult{Name: CheckHelpFlag, Detail: err.Error()}
	}
	return types.CheckResult{Name: CheckHelpFlag, Passed: true}
}

func (v *Verifier) userConfigRoot() types.CheckResult {
	info, err := os.Stat(v.Layout.UserConfigRoot)
	if err != nil || !info.IsDir() {
		return types.CheckResult{Name: CheckUserConfigRoot, Detail: v.Layout.UserConfigRoot + " missing"}
	}
	return types.CheckResult{Name: CheckUserConfigRoot, Passed: true, Detail: v.Layout.UserConfigRoot}
}

func (v *Verifier) isolatedEnv() types.CheckResult {
	info, err := os.Stat(v.Layout.VenvDir)
	if err != nil || !info.IsDir() {
		return types.CheckResult{Name: CheckIsolatedEnv, Detail: v.Layout.VenvDir + " missing"}
	}
	return types.CheckResult{Name: CheckIsolatedEnv, Passed: true, Detail: v.Layout.VenvDir}
}

func (v *Verifier) listSubcommand(ctx context.Context) types.CheckResult {
	if _, err := v.Runner.Run(ctx, layout.CommandName, "list"); err != nil {
		return types.CheckResult{Name: CheckListSubcommand, Advisory: true, Detail: err.Error()}
	}
	return types.CheckResult{Name: CheckListSubcommand, Passed: true, Advisory: true}
}
