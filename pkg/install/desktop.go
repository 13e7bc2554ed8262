package install

import (
	"os"
	"path/filepath"
)

// desktopEntry is the static freedesktop menu entry for the installed
// tool. It opens in a terminal; est is a console application.
const desktopEntry = `[Desktop Entry]
Version=1.0
Type=Application
Name=EST
GenericName=Email Security Assessment
Comment=Email Security Assessment Framework
Exec=x-terminal-emulator -e est
Terminal=true
Icon=utilities-terminal
Categories=Network;Security;
Keywords=email;smtp;security;assessment;
`

// writeDesktopEntries writes the menu entry to the user-writable
// applications directory and opportunistically duplicates it system-wide.
// Both are best-effort.
func (o *Orchestrator) writeDesktopEntries() {
	if err := os.MkdirAll(filepath.Dir(o.Layout.UserDesktopPath), 0755); err != nil {
		o.warnf("could not create applications directory: %v", err)
	} else if err := o.writeFile(o.Layout.UserDesktopPath, desktopEntry, 0644); err != nil {
		o.warnf("could not write desktop entry to %s: %v", o.Layout.UserDesktopPath, err)
	} else {
		o.logger.Debug().Str("path", o.Layout.UserDesktopPath).Msg("Desktop entry written")
	}

	// System-wide duplicate only when the directory is already there
	// and writable; absence is normal on headless hosts.
	if err := o.writeFile(o.Layout.SystemDesktopPath, desktopEntry, 0644); err != nil {
		o.warnf("could not duplicate desktop entry to %s: %v", o.Layout.SystemDesktopPath, err)
		return
	}
	o.logger.Debug().Str("path", o.Layout.SystemDesktopPath).Msg("System-wide desktop entry written")
}
