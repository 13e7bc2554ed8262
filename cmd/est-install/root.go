package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/techsky-srt/est-install/internal/version"
	"github.com/techsky-srt/est-install/pkg/cleanup"
	"github.com/techsky-srt/est-install/pkg/command"
	"github.com/techsky-srt/est-install/pkg/config"
	"github.com/techsky-srt/est-install/pkg/detect"
	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/install"
	"github.com/techsky-srt/est-install/pkg/layout"
	"github.com/techsky-srt/est-install/pkg/logging"
	"github.com/techsky-srt/est-install/pkg/pkgmgr"
	"github.com/techsky-srt/est-install/pkg/policy"
	"github.com/techsky-srt/est-install/pkg/receipt"
	"github.com/techsky-srt/est-install/pkg/style"
	"github.com/techsky-srt/est-install/pkg/types"
	"github.com/techsky-srt/est-install/pkg/verify"
)

var (
	verbosity  int
	assumeYes  bool
	dryRun     bool
	configPath string

	rootCmd = &cobra.Command{
		Use:   "est-install",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context())
		},
	}
)

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be done without changing anything")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Installer config file (default "+config.DefaultPath()+")")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: MsgVersionShort,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("est-install version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

// runInstall is the whole pipeline: detect, decide, confirm, install
// dependencies, orchestrate the filesystem, verify, report.
func runInstall(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	l := layout.New(cfg.Prefix, cfg.CommandPath)
	runner := command.NewRunner()

	printBanner()

	// Detection happens before any mutation.
	profile, err := detect.New(runner).Detect(ctx)
	if err != nil {
		return err
	}

	decision := policy.Decide(profile, l.VenvDir)

	printPlan(profile, decision, l)

	sourceDir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to determine working directory")
	}

	if dryRun {
		if err := install.CheckSourceArtifacts(sourceDir); err != nil {
			pterm.Warning.Println(err.Error())
		}
		printDryRun(profile, decision, l)
		return nil
	}

	if err := checkPrivilege(profile); err != nil {
		return err
	}

	// Source artifacts are checked before anything is created under the
	// install root, including the isolated environment.
	if err := install.CheckSourceArtifacts(sourceDir); err != nil {
		return err
	}

	// The only interruption point respected: once the user confirms,
	// every step either completes or aborts fatally with cleanup.
	ok, err := confirm(cfg)
	if err != nil {
		return err
	}
	if !ok {
		pterm.Info.Println(MsgAborted)
		return nil
	}

	cl := cleanup.New()
	defer cl.Run()
	cl.TrapSignals()

	mgr := pkgmgr.For(profile.PackageManager, runner)

	pterm.DefaultSection.Println(MsgStepToolchain)
	if err := mgr.InstallToolchain(ctx); err != nil {
		return err
	}

	pterm.DefaultSection.Println(MsgStepResolver)
	systemInstalled := false
	if !decision.UseIsolatedEnv {
		systemInstalled = mgr.InstallResolverLibrary(ctx)
	}

	resolver := policy.NewResolver(runner, detect.PythonBin)
	outcome, err := resolver.Resolve(ctx, decision, systemInstalled)
	if err != nil {
		return err
	}
	if outcome.Resolved() {
		pterm.Info.Printfln(MsgDepSatisfied, outcome.Source)
	}
	if decision.UseIsolatedEnv {
		cl.Register(policy.EnterIsolatedEnv(l.VenvDir))
	}

	pterm.DefaultSection.Println(MsgStepScaffold)
	orch := install.New(l, decision, outcome, sourceDir, cl)
	if err := orch.Run(); err != nil {
		return err
	}

	pterm.DefaultSection.Println(MsgStepVerify)
	report := verify.New(runner, l, decision).Run(ctx)

	printWarnings(orch.Warnings(), report)

	if !report.Passed() {
		return verificationError(report)
	}

	writeReceipt(l, profile, decision, outcome, report)
	printSuccess(l)
	return nil
}

// checkPrivilege ensures system-mutating package operations can succeed.
// User-scoped installs stay unprivileged; the abstraction never
// escalates on its own.
func checkPrivilege(profile types.HostProfile) error {
	switch profile.PackageManager {
	case types.PkgBrew, types.PkgUnknown:
		return nil
	}
	if os.Geteuid() != 0 {
		return errors.New(errors.ErrPermission, MsgNeedRoot).
			WithRemedy(MsgRerunRemedy)
	}
	return nil
}

// confirm asks the single yes/no question before any mutation begins.
func confirm(cfg config.Config) (bool, error) {
	if assumeYes || cfg.AssumeYes {
		return true, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, errors.New(errors.ErrInvalidInput, MsgNeedTTY).
			WithRemedy(MsgNeedTTYRemedy)
	}
	return pterm.DefaultInteractiveConfirm.Show(MsgConfirmQuestion)
}

func printBanner() {
	pterm.DefaultHeader.WithFullWidth().Println("EST Installer " + version.Version)
}

func printPlan(profile types.HostProfile, decision types.IsolationDecision, l layout.Layout) {
	pterm.DefaultSection.Println(MsgPlanHeader)
	fmt.Println(style.ListItemStyle.Render(fmt.Sprintf(MsgPlanOS, profile.OSFamily)))
	if profile.DistroTag != "" {
		fmt.Println(style.ListItemStyle.Render(fmt.Sprintf(MsgPlanDistro, profile.DistroTag)))
	}
	fmt.Println(style.ListItemStyle.Render(fmt.Sprintf(MsgPlanRuntime, profile.Runtime)))
	fmt.Println(style.ListItemStyle.Render(fmt.Sprintf(MsgPlanPkgManager, profile.PackageManager)))
	if decision.UseIsolatedEnv {
		fmt.Println(style.ListItemStyle.Render(fmt.Sprintf(MsgPlanIsolated, decision.Reason, decision.IsolatedEnvDir)))
	} else {
		fmt.Println(style.ListItemStyle.Render(MsgPlanShared))
	}
	fmt.Println(style.ListItemStyle.Render(fmt.Sprintf(MsgPlanPrefix, style.PathStyle.Render(l.Prefix))))
	fmt.Println(style.ListItemStyle.Render(fmt.Sprintf(MsgPlanCommand, style.PathStyle.Render(l.CommandPath))))
	fmt.Println()
}

// previewSteps returns the mutation steps a run would perform, in the
// order they would happen. Only --dry-run consumes this; the real run
// goes through the same pipeline directly.
func previewSteps(profile types.HostProfile, decision types.IsolationDecision, l layout.Layout) []string {
	steps := []string{
		fmt.Sprintf("install base toolchain via %s", profile.PackageManager),
	}
	if decision.UseIsolatedEnv {
		steps = append(steps,
			"create isolated environment at "+decision.IsolatedEnvDir,
			"install "+policy.ResolverPackage+" into the isolated environment")
	} else {
		steps = append(steps,
			"install "+policy.ResolverPackage+" (system package, then user scope)")
	}
	return append(steps,
		"create "+l.Prefix+" and "+l.UserConfigRoot,
		"install "+l.EntryPoint,
		"generate launcher "+l.WrapperPath+" and link "+l.CommandPath,
		"install bash completion, desktop entry and guides",
		"verify the installation",
	)
}

func printDryRun(profile types.HostProfile, decision types.IsolationDecision, l layout.Layout) {
	pterm.DefaultSection.Println(MsgDryRunHeader)
	for i, step := range previewSteps(profile, decision, l) {
		fmt.Println(style.ListItemStyle.Render(fmt.Sprintf("%d. %s", i+1, step)))
	}
	fmt.Println()
	pterm.Info.Println(MsgDryRunDone)
}

func printWarnings(integration []string, report types.VerificationReport) {
	warnings := append([]string{}, integration...)
	for _, c := range report.Warnings() {
		warnings = append(warnings, fmt.Sprintf("advisory check %s failed: %s", c.Name, c.Detail))
	}
	if len(warnings) == 0 {
		return
	}
	pterm.Warning.Println(MsgWarningsHeader)
	for _, w := range warnings {
		fmt.Println(style.ListItemStyle.Render(style.WarningStyle.Render("! ") + w))
	}
}

func verificationError(report types.VerificationReport) error {
	err := errors.New(errors.ErrVerification, MsgVerifyFailed).
		WithRemedy(MsgRerunRemedy)
	for _, c := range report.Checks {
		if !c.Passed && !c.Advisory {
			err = err.WithDetail(c.Name, c.Detail)
		}
	}
	return err
}

// writeReceipt records the outcome in the user config root. Best effort;
// a failed receipt never fails a verified install.
func writeReceipt(l layout.Layout, profile types.HostProfile, decision types.IsolationDecision, outcome types.DependencyOutcome, report types.VerificationReport) {
	r := receipt.Build(profile, decision, outcome, report)
	if err := receipt.Write(l.ReceiptPath, r); err != nil {
		log.Warn().Err(err).Str("path", l.ReceiptPath).Msg("Failed to write install receipt")
		return
	}

	// Under sudo the receipt lands inside the user's config root after
	// ownership was already reassigned, so it needs the same treatment.
	if uid, gid, ok := install.InvokingUser(); ok {
		if err := os.Chown(l.ReceiptPath, uid, gid); err != nil {
			log.Warn().Err(err).Str("path", l.ReceiptPath).Msg("Failed to reassign receipt ownership")
		}
	}
}

func printSuccess(l layout.Layout) {
	fmt.Println()
	pterm.Success.Println(style.SuccessStyle.Render(MsgSuccessBanner))

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return
	}
	out, err := renderer.Render(install.QuickstartContent(l))
	if err != nil {
		return
	}
	fmt.Print(out)
}
