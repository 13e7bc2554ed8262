// Package command wraps external command execution behind a small
// interface so the package-manager and verifier layers can be tested
// without touching the host.
package command

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/logging"
)

// DefaultTimeout bounds a single external command. Package-manager runs
// can be slow on cold mirrors.
const DefaultTimeout = 5 * time.Minute

// Result captures the output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands and resolves binaries on PATH.
type Runner interface {
	// Run executes name with args, blocking until it exits. A non-zero
	// exit status is returned as an error with code ErrCommandRun; the
	// Result is valid either way.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// LookPath reports the absolute path of name if it resolves on PATH.
	LookPath(name string) (string, error)
}

type osRunner struct {
	logger zerolog.Logger
}

// NewRunner creates a Runner backed by os/exec.
func NewRunner() Runner {
	return &osRunner{
		logger: logging.GetLogger("command.runner"),
	}
}

func (r *osRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	r.logger.Info().
		Str("command", name).
		Strs("args", args).
		Msg("Executing command")

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if stdout.Len() > 0 {
		r.logger.Debug().Str("output", res.Stdout).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		r.logger.Debug().Str("output", res.Stderr).Msg("Command stderr")
	}

	if err != nil {
		return res, errors.Wrapf(err, errors.ErrCommandRun,
			"command failed: %s", name).
			WithDetail("args", args).
			WithDetail("stderr", res.Stderr)
	}

	r.logger.Debug().Str("command", name).Msg("Command completed")
	return res, nil
}

func (r *osRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
