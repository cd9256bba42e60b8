package command

import (
	"context"
	"time"
)

// Result encapsulates the results from a command execution.
type Result struct {
	Command   string
	Stdout    string
	Stderr    string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// Runner provides methods to resolve and execute local commands.
type Runner interface {
	// Run executes a command and captures its output.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// RunInteractive executes a command wired to the calling terminal,
	// for commands that prompt the user themselves (e.g. passwd).
	RunInteractive(ctx context.Context, name string, args ...string) error

	// LookPath reports where the named command resolves on this host.
	LookPath(name string) (string, error)
}
