// Package cli turns the raw argument list into an immutable
// Configuration value. Parsing does no I/O: soft problems come back as
// warning strings for the caller to log.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Config is the validated run configuration. It is built once by Parse
// and never mutated afterwards.
type Config struct {
	Username     string
	Groups       []string
	Shell        string
	Comment      string
	SkipPassword bool
	DryRun       bool
	Verbose      bool
}

// ErrHelp is returned when the user asked for usage output.
var ErrHelp = errors.New("help requested")

// ParseError is a fatal usage problem in the argument list.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Parse converts args into a Config. The first token that is not a
// recognized flag and does not start with "--" becomes the username;
// later positional tokens and unrecognized flags are reported as
// warnings, not errors. A value flag whose value is missing is fatal,
// as is an empty argument list.
func Parse(args []string, defaultShell string) (*Config, []string, error) {
	if len(args) == 0 {
		return nil, nil, &ParseError{Message: "no arguments given"}
	}

	if defaultShell == "" {
		defaultShell = "/bin/bash"
	}
	cfg := &Config{Shell: defaultShell}
	var warnings []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			return nil, nil, ErrHelp

		case "--groups", "--shell", "--comment":
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				return nil, nil, &ParseError{Message: fmt.Sprintf("flag %s requires a value", arg)}
			}
			i++
			value := args[i]
			switch arg {
			case "--groups":
				cfg.Groups = splitGroups(value)
			case "--shell":
				cfg.Shell = value
			case "--comment":
				cfg.Comment = value
			}

		case "--no-password":
			cfg.SkipPassword = true
		case "--dry-run":
			cfg.DryRun = true
		case "--verbose":
			cfg.Verbose = true

		default:
			if strings.HasPrefix(arg, "--") {
				warnings = append(warnings, fmt.Sprintf("unrecognized flag %s ignored", arg))
				continue
			}
			if cfg.Username == "" {
				cfg.Username = arg
				continue
			}
			warnings = append(warnings,
				fmt.Sprintf("extra argument %q ignored; username is already %q", arg, cfg.Username))
		}
	}

	return cfg, warnings, nil
}

func splitGroups(value string) []string {
	var groups []string
	for _, g := range strings.Split(value, ",") {
		g = strings.TrimSpace(g)
		if g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

const usageText = `Usage: mkuser <username> [options]

Creates a new operating-system user account with a home directory.

Options:
  --groups g1,g2,...   Supplementary groups for the new account
  --shell path         Login shell (default /bin/bash)
  --comment text       Comment (GECOS) field for the account
  --no-password        Skip the interactive password step
  --dry-run            Report intended actions without changing anything
  --verbose            Echo every log record to the terminal
  --help, -h           Show this help and exit
`

// Usage writes the CLI usage text.
func Usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}
