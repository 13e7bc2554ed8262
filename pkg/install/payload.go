package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/layout"
)

// requiredArtifacts are the files expected alongside the entry point in
// the working directory. Only the entry point is copied by PlacePayload;
// the others prove the installer is running from a complete checkout.
var requiredArtifacts = []string{
	layout.EntryPointName,
	"requirements.txt",
	"README.md",
}

// CheckSourceArtifacts verifies the source artifacts are present in
// sourceDir. The flow runs this before any mutation so a missing payload
// aborts before anything is created under the install root.
func CheckSourceArtifacts(sourceDir string) error {
	var missing []string
	for _, name := range requiredArtifacts {
		if _, err := os.Stat(filepath.Join(sourceDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return errors.Newf(errors.ErrMissingArtifact,
		"missing source artifacts in %s: %s (expected %s)",
		sourceDir, strings.Join(missing, ", "), strings.Join(requiredArtifacts, ", ")).
		WithRemedy("git clone the EST repository and run the installer from its root")
}

// PreflightArtifacts verifies the source artifacts before any mutation
// of the install tree.
func (o *Orchestrator) PreflightArtifacts() error {
	return CheckSourceArtifacts(o.SourceDir)
}

// PlacePayload copies the entry point into the binary directory and
// marks it executable.
func (o *Orchestrator) PlacePayload() error {
	src := filepath.Join(o.SourceDir, layout.EntryPointName)
	dst := o.Layout.EntryPoint

	if err := o.copyFile(src, dst, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate,
			"failed to install entry point to %s", dst).
			WithRemedy(fmt.Sprintf("sudo cp %s %s && sudo chmod +x %s", src, dst, dst))
	}

	o.logger.Info().Str("path", dst).Msg("Entry point installed")
	return nil
}

// copyFile copies src to dst atomically: the content lands in a scratch
// file next to dst, registered with the cleanup handler, then renamed
// into place. An interrupted run leaves no partial target file.
func (o *Orchestrator) copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	if o.cleanup != nil {
		o.cleanup.AddScratch(tmp)
	}

	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, dst)
}

// writeFile writes content to dst with the same scratch-then-rename
// discipline as copyFile.
func (o *Orchestrator) writeFile(dst, content string, perm os.FileMode) error {
	tmp := dst + ".tmp"
	if o.cleanup != nil {
		o.cleanup.AddScratch(tmp)
	}

	if err := os.WriteFile(tmp, []byte(content), perm); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
