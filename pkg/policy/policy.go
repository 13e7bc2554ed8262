// Package policy decides whether dependencies go into an isolated runtime
// environment or the shared system runtime, and owns the ordered fallback
// ladder that actually satisfies the resolver-library dependency.
package policy

import (
	"github.com/techsky-srt/est-install/pkg/types"
)

// Python minors at and above this reject direct system-wide pip installs
// (externally-managed environments), forcing isolation.
const isolationThresholdMinor = 11

// Decide derives the IsolationDecision from the host profile. Pure
// function: same profile, same decision.
//
// The Kali override is unconditional even when the runtime version alone
// would not require isolation; that distribution's packaging policy is
// stricter than the version predicts.
func Decide(profile types.HostProfile, venvDir string) types.IsolationDecision {
	if profile.IsKali() {
		return types.IsolationDecision{
			UseIsolatedEnv: true,
			Reason:         types.ReasonDistroPolicy,
			IsolatedEnvDir: venvDir,
		}
	}

	if profile.Runtime.AtLeast(3, isolationThresholdMinor) {
		return types.IsolationDecision{
			UseIsolatedEnv: true,
			Reason:         types.ReasonRuntimeTooNew,
			IsolatedEnvDir: venvDir,
		}
	}

	return types.IsolationDecision{
		UseIsolatedEnv: false,
		Reason:         types.ReasonUserDefault,
	}
}
