package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeVersionAtLeast(t *testing.T) {
	tests := []struct {
		version      RuntimeVersion
		major, minor int
		want         bool
	}{
		{RuntimeVersion{3, 11}, 3, 11, true},
		{RuntimeVersion{3, 13}, 3, 11, true},
		{RuntimeVersion{3, 10}, 3, 11, false},
		{RuntimeVersion{3, 8}, 3, 8, true},
		{RuntimeVersion{2, 7}, 3, 8, false},
		{RuntimeVersion{4, 0}, 3, 11, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.version.AtLeast(tt.major, tt.minor),
			"%s >= %d.%d", tt.version, tt.major, tt.minor)
	}
}

func TestRuntimeVersionString(t *testing.T) {
	assert.Equal(t, "3.11", RuntimeVersion{3, 11}.String())
}

func TestVerificationReportPassed(t *testing.T) {
	report := VerificationReport{Checks: []CheckResult{
		{Name: "a", Passed: true},
		{Name: "b", Passed: true},
	}}
	assert.True(t, report.Passed())

	report.Checks = append(report.Checks, CheckResult{Name: "c", Passed: false})
	assert.False(t, report.Passed())
}

func TestVerificationReportAdvisoryDoesNotFail(t *testing.T) {
	report := VerificationReport{Checks: []CheckResult{
		{Name: "a", Passed: true},
		{Name: "e", Passed: false, Advisory: true},
	}}
	assert.True(t, report.Passed())
	assert.Len(t, report.Warnings(), 1)
}

func TestDependencyOutcomeResolved(t *testing.T) {
	assert.True(t, DependencyOutcome{Source: DepSystemPackage}.Resolved())
	assert.True(t, DependencyOutcome{Source: DepIsolatedEnv}.Resolved())
	assert.False(t, DependencyOutcome{Source: DepUnresolved}.Resolved())
	assert.False(t, DependencyOutcome{}.Resolved())
}

func TestHostProfileIsKali(t *testing.T) {
	assert.True(t, HostProfile{DistroTag: DistroTagKali}.IsKali())
	assert.False(t, HostProfile{DistroTag: "debian"}.IsKali())
	assert.False(t, HostProfile{}.IsKali())
}
