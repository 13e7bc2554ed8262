// Package receipt writes the install receipt: a record of what was
// detected, what was decided and how the dependency was satisfied, so a
// re-run or a support request can see what the last install did.
package receipt

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/types"
)

// Receipt is the persisted record. Stored as YAML in the per-user
// config root.
type Receipt struct {
	InstalledAt    time.Time `yaml:"installed_at"`
	OSFamily       string    `yaml:"os_family"`
	DistroTag      string    `yaml:"distro_tag,omitempty"`
	PackageManager string    `yaml:"package_manager"`
	Runtime        string    `yaml:"runtime"`

	Isolated        bool   `yaml:"isolated"`
	IsolationReason string `yaml:"isolation_reason"`
	IsolatedEnvDir  string `yaml:"isolated_env_dir,omitempty"`

	DependencySource string `yaml:"dependency_source"`

	Checks []CheckEntry `yaml:"checks"`
}

// CheckEntry is one verification result in the receipt.
type CheckEntry struct {
	Name     string `yaml:"name"`
	Passed   bool   `yaml:"passed"`
	Advisory bool   `yaml:"advisory,omitempty"`
}

// Build assembles a Receipt from the pipeline's records.
func Build(profile types.HostProfile, decision types.IsolationDecision, outcome types.DependencyOutcome, report types.VerificationReport) Receipt {
	r := Receipt{
		InstalledAt:      time.Now().UTC(),
		OSFamily:         string(profile.OSFamily),
		DistroTag:        profile.DistroTag,
		PackageManager:   string(profile.PackageManager),
		Runtime:          profile.Runtime.String(),
		Isolated:         decision.UseIsolatedEnv,
		IsolationReason:  string(decision.Reason),
		IsolatedEnvDir:   decision.IsolatedEnvDir,
		DependencySource: string(outcome.Source),
	}
	for _, c := range report.Checks {
		r.Checks = append(r.Checks, CheckEntry{Name: c.Name, Passed: c.Passed, Advisory: c.Advisory})
	}
	return r
}

// Write marshals the receipt to path.
func Write(path string, r Receipt) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to marshal install receipt")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write install receipt to %s", path)
	}
	return nil
}
