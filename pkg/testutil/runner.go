// Package testutil provides shared test doubles for the installer
// packages.
package testutil

import (
	"context"
	"os/exec"
	"strings"

	"github.com/techsky-srt/est-install/pkg/command"
	"github.com/techsky-srt/est-install/pkg/errors"
)

// FakeRunner records executed commands and serves scripted responses.
// The zero value succeeds every call with empty output.
type FakeRunner struct {
	// Calls holds each executed command line, space-joined.
	Calls []string

	// Results maps a command-line prefix to its scripted result. The
	// first matching prefix wins.
	Results map[string]ScriptedResult

	// Paths maps binary names LookPath should resolve. Unlisted names
	// fail with exec.ErrNotFound unless PathsAllowAll is set.
	Paths         map[string]string
	PathsAllowAll bool
}

// ScriptedResult is a canned response for FakeRunner.Run.
type ScriptedResult struct {
	Stdout string
	Stderr string
	Fail   bool
}

var _ command.Runner = (*FakeRunner)(nil)

// Run implements command.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (command.Result, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.Calls = append(f.Calls, line)

	for prefix, res := range f.Results {
		if strings.HasPrefix(line, prefix) {
			out := command.Result{Stdout: res.Stdout, Stderr: res.Stderr}
			if res.Fail {
				out.ExitCode = 1
				return out, errors.Newf(errors.ErrCommandRun, "command failed: %s", name)
			}
			return out, nil
		}
	}
	return command.Result{}, nil
}

// LookPath implements command.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.PathsAllowAll {
		return "/usr/bin/" + name, nil
	}
	if path, ok := f.Paths[name]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// CalledWith reports whether any recorded command line starts with
// prefix.
func (f *FakeRunner) CalledWith(prefix string) bool {
	for _, call := range f.Calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}
