package policy

import (
	"os"
	"path/filepath"

	"github.com/techsky-srt/est-install/pkg/logging"
)

// EnterIsolatedEnv activates the isolated environment for this process,
// so that subsequent child commands (verification runs of the installed
// tool) resolve the environment's interpreter first. The returned
// function restores the previous environment; the cleanup handler runs
// it on every exit path.
func EnterIsolatedEnv(venvDir string) func() {
	logger := logging.GetLogger("policy.env")

	prevVirtualEnv, hadVirtualEnv := os.LookupEnv("VIRTUAL_ENV")
	prevPath := os.Getenv("PATH")

	os.Setenv("VIRTUAL_ENV", venvDir)
	os.Setenv("PATH", filepath.Join(venvDir, "bin")+string(os.PathListSeparator)+prevPath)

	logger.Debug().Str("dir", venvDir).Msg("Entered isolated environment")

	return func() {
		if hadVirtualEnv {
			os.Setenv("VIRTUAL_ENV", prevVirtualEnv)
		} else {
			os.Unsetenv("VIRTUAL_ENV")
		}
		os.Setenv("PATH", prevPath)
		logger.Debug().Msg("Exited isolated environment")
	}
}
