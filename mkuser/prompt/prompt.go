// Package prompt implements the interactive yes/no confirmation gate.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Interactive reports whether standard input is a terminal. Callers
// must not invoke Confirm when it is not.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks a yes/no question and returns the answer. The rendered
// suffix reflects the default: "[Y/n]" or "[y/N]". Empty input means
// the default; only an explicit or defaulted affirmative returns true.
func Confirm(in io.Reader, out io.Writer, question string, def bool) bool {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	fmt.Fprintf(out, "%s %s ", question, suffix)

	// A read error or EOF leaves an empty line, which counts as
	// accepting the default.
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		return def
	}
	return answer == "y" || answer == "yes"
}
