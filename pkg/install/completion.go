package install

import (
	"fmt"
	"sort"
	"strings"

	"github.com/techsky-srt/est-install/pkg/layout"
)

// subcommandFlags is the static mapping consumed by the host shell's
// completion mechanism. It mirrors the installed application's CLI.
var subcommandFlags = map[string][]string{
	"server": {"--host", "--port"},
	"list":   {},
	"test":   {"--smtp-host", "--smtp-port"},
	"logs":   {"--lines"},
	"report": {"--output"},
	"custom": {"--from-email", "--from-name", "--subject", "--body", "--target", "--smtp-host", "--smtp-port"},
}

// CompletionContent renders the bash completion definition for est.
func CompletionContent() string {
	names := make([]string, 0, len(subcommandFlags))
	for name := range subcommandFlags {
		names = append(names, name)
	}
	sort.Strings(names)

	var cases strings.Builder
	for _, name := range names {
		flags := subcommandFlags[name]
		if len(flags) == 0 {
			continue
		}
		cases.WriteString(fmt.Sprintf(`        %s)
            COMPREPLY=( $(compgen -W "%s" -- "$cur") )
            ;;
`, name, strings.Join(flags, " ")))
	}

	return fmt.Sprintf(`# bash completion for %s (generated by est-install)
_est() {
    local cur commands
    cur="${COMP_WORDS[COMP_CWORD]}"
    commands="%s"

    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "$commands" -- "$cur") )
        return 0
    fi

    case "${COMP_WORDS[1]}" in
%s    esac
    return 0
}
complete -F _est %s
`, layout.CommandName, strings.Join(names, " "), cases.String(), layout.CommandName)
}

// writeCompletion installs the completion definition into the privileged
// completion directory, degrading to a warning if it is unwritable.
func (o *Orchestrator) writeCompletion() {
	if err := o.writeFile(o.Layout.CompletionPath, CompletionContent(), 0644); err != nil {
		o.warnf("could not install bash completion to %s: %v", o.Layout.CompletionPath, err)
		return
	}
	o.logger.Debug().Str("path", o.Layout.CompletionPath).Msg("Bash completion installed")
}
