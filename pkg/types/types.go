// Package types defines the core data model shared by the installer
// pipeline: the detected host profile, the isolation decision derived from
// it, the recorded dependency outcome, and the verification report.
package types

import "fmt"

// OSFamily identifies the broad operating system family of the host.
type OSFamily string

const (
	OSLinux   OSFamily = "linux"
	OSDarwin  OSFamily = "darwin"
	OSUnknown OSFamily = "unknown"
)

// PackageManagerKind identifies which system package manager was detected.
type PackageManagerKind string

const (
	PkgApt     PackageManagerKind = "apt"
	PkgDnf     PackageManagerKind = "dnf"
	PkgYum     PackageManagerKind = "yum"
	PkgPacman  PackageManagerKind = "pacman"
	PkgZypper  PackageManagerKind = "zypper"
	PkgBrew    PackageManagerKind = "brew"
	PkgUnknown PackageManagerKind = "unknown"
)

// DistroTagKali marks the specialized security-research distribution whose
// packaging policy forces runtime isolation regardless of version.
const DistroTagKali = "kali"

// RuntimeVersion is the detected major.minor of the Python runtime.
type RuntimeVersion struct {
	Major int
	Minor int
}

// String returns the version in "major.minor" form.
func (v RuntimeVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether the version is >= major.minor.
func (v RuntimeVersion) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// HostProfile captures everything the engine needs to know about the
// installation target. It is computed once at startup, before any
// filesystem mutation, and is immutable thereafter.
type HostProfile struct {
	OSFamily       OSFamily
	DistroTag      string
	PackageManager PackageManagerKind
	Runtime        RuntimeVersion
}

// IsKali reports whether the host runs the specialized security distro.
func (p HostProfile) IsKali() bool {
	return p.DistroTag == DistroTagKali
}

// IsolationReason explains why an isolation decision was made.
type IsolationReason string

const (
	ReasonRuntimeTooNew IsolationReason = "runtime-too-new"
	ReasonDistroPolicy  IsolationReason = "distro-policy"
	ReasonUserDefault   IsolationReason = "user-default"
)

// IsolationDecision is the pure output of the isolation policy. It drives
// the dependency ladder and selects the wrapper-script variant.
type IsolationDecision struct {
	UseIsolatedEnv bool
	Reason         IsolationReason
	IsolatedEnvDir string
}

// DependencySource records how the resolver library was actually
// satisfied. Wrapper generation and verification must stay consistent
// with this value.
type DependencySource string

const (
	DepSystemPackage         DependencySource = "system-package"
	DepIsolatedEnv           DependencySource = "isolated-env"
	DepUserSitePackages      DependencySource = "user-site"
	DepUserSitePackagesForce DependencySource = "user-site-forced"
	DepUnresolved            DependencySource = "unresolved"
)

// DependencyOutcome is the result of running the fallback ladder.
type DependencyOutcome struct {
	Source DependencySource
}

// Resolved reports whether the resolver library ended up available.
func (o DependencyOutcome) Resolved() bool {
	return o.Source != DepUnresolved && o.Source != ""
}

// CheckResult is one verifier check with its outcome.
type CheckResult struct {
	Name     string
	Passed   bool
	Advisory bool
	Detail   string
}

// VerificationReport is the ordered list of post-install checks.
type VerificationReport struct {
	Checks []CheckResult
}

// Passed reports overall success: the logical AND of all non-advisory
// checks. Advisory checks produce warnings only.
func (r VerificationReport) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed && !c.Advisory {
			return false
		}
	}
	return true
}

// Warnings returns the advisory checks that failed.
func (r VerificationReport) Warnings() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed && c.Advisory {
			out = append(out, c)
		}
	}
	return out
}
