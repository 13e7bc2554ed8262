package install

import (
	"fmt"
	"os"

	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/layout"
	"github.com/techsky-srt/est-install/pkg/types"
)

// venvWrapperTemplate activates the isolated environment before handing
// control to the entry point. Arguments are forwarded unchanged.
const venvWrapperTemplate = `#!/usr/bin/env bash
# EST launcher (generated by est-install)
VENV=%q
EST_PY=%q

if [ ! -f "$VENV/bin/activate" ]; then
    echo "error: EST virtual environment is missing: $VENV" >&2
    echo "re-run the installer: sudo est-install" >&2
    exit 1
fi
if [ ! -f "$EST_PY" ]; then
    echo "error: EST entry point is missing: $EST_PY" >&2
    echo "re-run the installer: sudo est-install" >&2
    exit 1
fi

# shellcheck disable=SC1091
. "$VENV/bin/activate"
exec python3 "$EST_PY" "$@"
`

// systemWrapperTemplate runs the shared system runtime with the user
// site-packages directory on the library path, matching where the
// dependency ladder put the resolver library.
const systemWrapperTemplate = `#!/usr/bin/env bash
# EST launcher (generated by est-install)
EST_PY=%q

if [ ! -f "$EST_PY" ]; then
    echo "error: EST entry point is missing: $EST_PY" >&2
    echo "re-run the installer: sudo est-install" >&2
    exit 1
fi

USER_SITE="$(python3 -m site --user-site 2>/dev/null)"
if [ -n "$USER_SITE" ]; then
    export PYTHONPATH="$USER_SITE${PYTHONPATH:+:$PYTHONPATH}"
fi
exec python3 "$EST_PY" "$@"
`

// WrapperContent returns the launcher script for the given layout and
// decision. Pure function: identical inputs produce byte-identical
// output, which keeps re-runs idempotent.
func WrapperContent(l layout.Layout, decision types.IsolationDecision) string {
	if decision.UseIsolatedEnv {
		return fmt.Sprintf(venvWrapperTemplate, l.VenvDir, l.EntryPoint)
	}
	return fmt.Sprintf(systemWrapperTemplate, l.EntryPoint)
}

// GenerateWrapper writes the launcher and links it onto the global
// command path so the tool is invocable by name.
func (o *Orchestrator) GenerateWrapper() error {
	content := WrapperContent(o.Layout, o.Decision)

	if err := o.writeFile(o.Layout.WrapperPath, content, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write launcher to %s", o.Layout.WrapperPath).
			WithRemedy("sudo est-install")
	}

	if err := o.linkCommand(); err != nil {
		return err
	}

	o.logger.Info().
		Str("wrapper", o.Layout.WrapperPath).
		Str("command", o.Layout.CommandPath).
		Bool("isolated", o.Decision.UseIsolatedEnv).
		Msg("Launcher generated")
	return nil
}

// linkCommand points the fixed global command path at the wrapper. A
// correct existing link is left alone; anything else is replaced.
func (o *Orchestrator) linkCommand() error {
	if target, err := os.Readlink(o.Layout.CommandPath); err == nil && target == o.Layout.WrapperPath {
		return nil
	}

	if err := os.Remove(o.Layout.CommandPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to replace existing command at %s", o.Layout.CommandPath).
			WithRemedy("sudo rm " + o.Layout.CommandPath)
	}

	if err := os.Symlink(o.Layout.WrapperPath, o.Layout.CommandPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to link %s", o.Layout.CommandPath).
			WithRemedy(fmt.Sprintf("sudo ln -sf %s %s", o.Layout.WrapperPath, o.Layout.CommandPath))
	}

	return nil
}
