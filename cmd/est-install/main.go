package main

import (
	"fmt"
	"os"

	"github.com/techsky-srt/est-install/pkg/errors"
	"github.com/techsky-srt/est-install/pkg/style"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render("error: ")+err.Error())
		for _, remedy := range errors.GetRemedy(err) {
			fmt.Fprintf(os.Stderr, "  try: %s\n", remedy)
		}
		if errors.IsCode(err, errors.ErrVerification) {
			fmt.Fprintln(os.Stderr, MsgPartialInstall)
		}
		os.Exit(1)
	}
}
