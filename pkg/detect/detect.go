// Package detect inspects the host and produces the HostProfile the rest
// of the pipeline branches on. Detection never mutates state.
package detect

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/techsky-srt/est-install/pkg/command"
	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/logging"
	"github.com/techsky-srt/est-install/pkg/types"
)

// Minimum supported Python runtime. Anything older aborts before any
// filesystem mutation.
const (
	MinRuntimeMajor = 3
	MinRuntimeMinor = 8
)

// PythonBin is the interpreter probed and later used by the wrapper.
const PythonBin = "python3"

// OSReleasePath is the standard os-release location on Linux.
const OSReleasePath = "/etc/os-release"

var versionRe = regexp.MustCompile(`Python (\d+)\.(\d+)`)

// packageManagerProbes maps lookup binaries to manager kinds, in
// preference order. apt-get is probed before the rest since Debian
// derivatives (including Kali) may also carry a stray dnf shim.
var packageManagerProbes = []struct {
	binary string
	kind   types.PackageManagerKind
}{
	{"apt-get", types.PkgApt},
	{"dnf", types.PkgDnf},
	{"yum", types.PkgYum},
	{"pacman", types.PkgPacman},
	{"zypper", types.PkgZypper},
	{"brew", types.PkgBrew},
}

// Detector probes the host. Its collaborators are injectable so profile
// computation is testable without a real host.
type Detector struct {
	Runner        command.Runner
	OSReleasePath string
	GOOS          string
	logger        zerolog.Logger
}

// New creates a Detector backed by the real host.
func New(runner command.Runner) *Detector {
	return &Detector{
		Runner:        runner,
		OSReleasePath: OSReleasePath,
		GOOS:          runtime.GOOS,
		logger:        logging.GetLogger("detect"),
	}
}

// Detect computes the HostProfile. It fails only when the Python runtime
// version cannot be determined or is below the supported minimum.
func (d *Detector) Detect(ctx context.Context) (types.HostProfile, error) {
	profile := types.HostProfile{
		OSFamily:       d.osFamily(),
		DistroTag:      d.distroTag(),
		PackageManager: d.packageManager(),
	}

	version, err := d.runtimeVersion(ctx)
	if err != nil {
		return types.HostProfile{}, err
	}
	profile.Runtime = version

	d.logger.Info().
		Str("os", string(profile.OSFamily)).
		Str("distro", profile.DistroTag).
		Str("packageManager", string(profile.PackageManager)).
		Str("runtime", profile.Runtime.String()).
		Msg("Host profile detected")

	return profile, nil
}

func (d *Detector) osFamily() types.OSFamily {
	switch d.GOOS {
	case "linux":
		return types.OSLinux
	case "darwin":
		return types.OSDarwin
	default:
		return types.OSUnknown
	}
}

// distroTag reads ID and ID_LIKE from os-release. Only the specialized
// security distro is significant to the isolation policy; everything
// else returns an empty tag.
func (d *Detector) distroTag() string {
	file, err := os.Open(d.OSReleasePath)
	if err != nil {
		return ""
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			if value == types.DistroTagKali {
				return types.DistroTagKali
			}
		case "ID_LIKE":
			for _, like := range strings.Fields(value) {
				if like == types.DistroTagKali {
					return types.DistroTagKali
				}
			}
		}
	}
	return ""
}

func (d *Detector) packageManager() types.PackageManagerKind {
	for _, probe := range packageManagerProbes {
		if _, err := d.Runner.LookPath(probe.binary); err == nil {
			d.logger.Debug().Str("binary", probe.binary).Msg("Package manager found")
			return probe.kind
		}
	}
	d.logger.Warn().Msg("No known package manager found, dependencies must be installed manually")
	return types.PkgUnknown
}

// runtimeVersion probes `python3 --version`. Some interpreters print the
// banner on stderr, so both streams are checked.
func (d *Detector) runtimeVersion(ctx context.Context) (types.RuntimeVersion, error) {
	if _, err := d.Runner.LookPath(PythonBin); err != nil {
		return types.RuntimeVersion{}, errors.Newf(errors.ErrUnsupportedRuntime,
			"python3 not found; EST requires Python %d.%d or newer", MinRuntimeMajor, MinRuntimeMinor).
			WithRemedy("sudo apt-get install python3")
	}

	res, err := d.Runner.Run(ctx, PythonBin, "--version")
	if err != nil {
		return types.RuntimeVersion{}, errors.Wrap(err, errors.ErrUnsupportedRuntime,
			"failed to determine python3 version").
			WithRemedy("python3 --version")
	}

	match := versionRe.FindStringSubmatch(res.Stdout)
	if match == nil {
		match = versionRe.FindStringSubmatch(res.Stderr)
	}
	if match == nil {
		return types.RuntimeVersion{}, errors.Newf(errors.ErrUnsupportedRuntime,
			"could not parse python3 version from %q", strings.TrimSpace(res.Stdout+res.Stderr)).
			WithRemedy("python3 --version")
	}

	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	version := types.RuntimeVersion{Major: major, Minor: minor}

	if !version.AtLeast(MinRuntimeMajor, MinRuntimeMinor) {
		return types.RuntimeVersion{}, errors.Newf(errors.ErrUnsupportedRuntime,
			"Python %s is not supported; EST requires Python %d.%d or newer",
			version, MinRuntimeMajor, MinRuntimeMinor).
			WithRemedy("sudo apt-get install python3")
	}

	return version, nil
}
