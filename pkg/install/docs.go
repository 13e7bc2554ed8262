package install

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/techsky-srt/est-install/pkg/layout"
)

// optionalDocs are copied into the docs directory when present in the
// working directory. None are required.
var optionalDocs = []string{
	"README.md",
	"CHANGELOG.md",
	"CONTRIBUTING.md",
	"CODE_OF_CONDUCT.md",
	"LICENSE",
}

func (o *Orchestrator) copyOptionalDocs() {
	for _, name := range optionalDocs {
		src := filepath.Join(o.SourceDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := filepath.Join(o.Layout.DocsDir, name)
		if err := o.copyFile(src, dst, 0644); err != nil {
			o.warnf("could not copy %s: %v", name, err)
			continue
		}
		o.logger.Debug().Str("doc", name).Msg("Documentation file copied")
	}
}

// copyExamples mirrors the examples directory tree when present.
func (o *Orchestrator) copyExamples() {
	src := filepath.Join(o.SourceDir, "examples")
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(o.Layout.ExamplesDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0755)
		}
		return o.copyFile(path, dst, 0644)
	})
	if err != nil {
		o.warnf("could not copy examples tree: %v", err)
		return
	}
	o.logger.Debug().Msg("Examples tree copied")
}

// writeGuides generates the quick-start and troubleshooting documents.
// Their content is static text parameterized only by the fixed paths.
func (o *Orchestrator) writeGuides() {
	guides := map[string]string{
		"QUICKSTART.md":      QuickstartContent(o.Layout),
		"TROUBLESHOOTING.md": TroubleshootingContent(o.Layout),
	}
	for name, content := range guides {
		dst := filepath.Join(o.Layout.DocsDir, name)
		if err := o.writeFile(dst, content, 0644); err != nil {
			o.warnf("could not write %s: %v", name, err)
			continue
		}
		o.logger.Debug().Str("guide", name).Msg("Guide generated")
	}
}

// QuickstartContent returns the generated quick-start guide.
func QuickstartContent(l layout.Layout) string {
	prefix, command, userRoot := l.Prefix, l.CommandPath, l.UserConfigRoot
	return fmt.Sprintf(`# EST Quick Start

EST is installed under %s and available as %s.

## First steps

Start the SMTP test server on an unprivileged port:

    est server --port 2525

List the built-in assessment scenarios:

    est list

Run a scenario against an authorized target mailbox:

    est test 1 target@example.com

View recent test activity and generate a report:

    est logs --lines 50
    est report

## Where things live

- Application: %s
- Your data (reports, logs, scenarios): %s

EST is for authorized security assessment only. Obtain written
permission before testing systems you do not own.
`, prefix, command, prefix, userRoot)
}

// TroubleshootingContent returns the generated troubleshooting guide.
func TroubleshootingContent(l layout.Layout) string {
	prefix, command, userRoot := l.Prefix, l.CommandPath, l.UserConfigRoot
	return fmt.Sprintf(`# EST Troubleshooting

## "command not found: est"

The launcher is linked at %s. Confirm the link exists and that the
directory is on your PATH:

    ls -l %s
    echo "$PATH"

Re-running the installer recreates the link:

    sudo est-install

## "EST virtual environment is missing"

The isolated environment under %s was removed or never created.
Re-run the installer; it rebuilds the environment from scratch:

    sudo est-install

## DNS resolution errors (dns.resolver not found)

The resolver library did not install. Any one of these fixes it:

    sudo apt-get install python3-dnspython
    python3 -m pip install --user dnspython
    python3 -m pip install --user --break-system-packages dnspython

## Reports or logs missing

EST writes per-user data under %s. The directory is created at install
time; if it was deleted, re-run the installer or recreate it:

    mkdir -p %s/reports %s/logs %s/scenarios
`, command, command, prefix, userRoot, userRoot, userRoot, userRoot)
}
