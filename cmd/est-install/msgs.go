package main

// Short messages (one-liners)
const (
	MsgRootShort = "Install and configure the EST email security assessment framework"
	MsgRootLong = `est-install inspects the host, decides an installation strategy,
acquires dependencies, scaffolds the install tree and generates the est
launcher, then verifies the result. Safe to re-run.`
	MsgVersionShort = "Print version information"

	// Plan summary
	MsgPlanHeader      = "Installation plan"
	MsgPlanOS          = "Operating system:  %s"
	MsgPlanDistro      = "Distribution tag:  %s"
	MsgPlanRuntime     = "Python runtime:    %s"
	MsgPlanPkgManager  = "Package manager:   %s"
	MsgPlanIsolated    = "Isolated env:      yes (%s) at %s"
	MsgPlanShared      = "Isolated env:      no, shared system runtime"
	MsgPlanPrefix      = "Install root:      %s"
	MsgPlanCommand     = "Command:           %s"
	MsgConfirmQuestion = "Proceed with installation?"
	MsgAborted         = "Installation aborted, nothing was changed."

	// Dry run
	MsgDryRunHeader = "Dry run: steps that would be performed"
	MsgDryRunDone   = "Dry run complete, nothing was changed."

	// Progress
	MsgStepToolchain  = "Installing base toolchain"
	MsgStepResolver   = "Resolving the DNS library dependency"
	MsgDepSatisfied   = "DNS resolver library satisfied via %s"
	MsgStepScaffold   = "Creating directories and placing files"
	MsgStepVerify     = "Verifying installation"
	MsgWarningsHeader = "Warnings (installation continued):"

	// Outcome
	MsgSuccessBanner  = "EST installed successfully. Run 'est list' to get started."
	MsgVerifyFailed   = "installation verification failed"
	MsgRerunRemedy    = "sudo est-install"
	MsgPartialInstall = "  partially installed files were left in place; re-running the installer repairs them"

	// Preconditions
	MsgNeedRoot      = "system package installation requires elevated privilege"
	MsgNeedTTY       = "confirmation required but stdin is not a terminal"
	MsgNeedTTYRemedy = "est-install --yes"
)
