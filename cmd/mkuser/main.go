package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/m-217/mkuser/logger"
	"github.com/m-217/mkuser/mkuser/account"
	"github.com/m-217/mkuser/mkuser/cli"
	"github.com/m-217/mkuser/mkuser/command"
	"github.com/m-217/mkuser/mkuser/config"
	"github.com/m-217/mkuser/mkuser/prompt"
	"github.com/m-217/mkuser/mkuser/provision"
	"github.com/m-217/mkuser/mkuser/render"
	"github.com/m-217/mkuser/mkuser/validate"
)

const (
	exitOK         = 0
	exitUsage      = 1
	exitValidation = 2
	exitExec       = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defaults, defaultsErr := config.Load(config.DefaultPath)

	out := render.New(os.Stdout)
	log := logger.New(logger.Options{
		Dir:  defaults.LogDir,
		Echo: echoFunc(out),
	})
	if defaultsErr != nil {
		log.Warnf("ignoring unreadable defaults file %s: %v", config.DefaultPath, defaultsErr)
	}

	cfg, warnings, err := cli.Parse(args, defaults.Shell)
	if errors.Is(err, cli.ErrHelp) {
		cli.Usage(os.Stdout)
		return exitOK
	}
	if err != nil {
		log.Errorf("%v", err)
		out.Printf(render.Error, "Error: %v", err)
		cli.Usage(os.Stdout)
		return exitUsage
	}
	log.SetVerbose(cfg.Verbose)
	for _, w := range warnings {
		log.Warnf("%s", w)
	}

	installSignalHandler(log)

	ctx := context.Background()
	runner := command.ExecRunner{}
	dir := &account.GetentDirectory{Runner: runner}

	if err := validate.CheckDependencies(runner); err != nil {
		return fail(out, log, err)
	}
	if err := validate.CheckPrivileges(os.Geteuid(), append([]string{"mkuser"}, args...)); err != nil {
		return fail(out, log, err)
	}

	users := validate.UserChecker{Dir: dir, Reserved: defaults.ReservedUsers}
	userWarnings, err := users.Username(ctx, cfg.Username)
	for _, w := range userWarnings {
		log.Warnf("%s", w)
	}
	if err != nil {
		return fail(out, log, err)
	}

	shells := validate.ShellChecker{Dir: dir, Confirm: confirmGate(log)}
	shellWarnings, err := shells.Shell(ctx, cfg.Shell)
	for _, w := range shellWarnings {
		log.Warnf("%s", w)
	}
	if err != nil {
		return fail(out, log, err)
	}

	if !cfg.DryRun && !confirmCreation(log, cfg) {
		log.Infof("aborted by user before creating %q", cfg.Username)
		out.Print(render.Info, "Aborted.")
		return exitOK
	}

	p := provision.Provisioner{Runner: runner, Dir: dir, Log: log}
	outcome, err := p.Provision(ctx, cfg)
	if err != nil {
		return fail(out, log, err)
	}

	report(out, log, cfg, outcome)
	return exitOK
}

// confirmGate adapts the prompt package for the shell validator. With
// no terminal on stdin the gate cannot ask, so it answers with the
// supplied default (no, for an unregistered shell).
func confirmGate(log *logger.Logger) func(question string, def bool) bool {
	return func(question string, def bool) bool {
		if !prompt.Interactive() {
			log.Warnf("standard input is not a terminal; answering confirmation with default")
			return def
		}
		return prompt.Confirm(os.Stdin, os.Stdout, question, def)
	}
}

// confirmCreation is the main gate before mutating the system. A
// non-interactive stdin skips the question and proceeds, which is
// logged so the decision shows up in the audit trail.
func confirmCreation(log *logger.Logger, cfg *cli.Config) bool {
	if !prompt.Interactive() {
		log.Warnf("standard input is not a terminal; skipping confirmation and proceeding")
		return true
	}
	question := fmt.Sprintf("Create user %q with shell %s?", cfg.Username, cfg.Shell)
	return prompt.Confirm(os.Stdin, os.Stdout, question, true)
}

func report(out *render.Renderer, log *logger.Logger, cfg *cli.Config, outcome provision.Outcome) {
	if cfg.DryRun {
		out.Printf(render.Highlight, "Dry run: no changes were made.")
		out.Printf(render.Success, "Would create user %q with home %s and shell %s",
			cfg.Username, outcome.HomeDir, outcome.Shell)
		return
	}

	out.Printf(render.Success, "User %q created.", cfg.Username)
	out.Printf(render.Info, "  Home directory: %s", outcome.HomeDir)
	out.Printf(render.Info, "  Login shell:    %s", outcome.Shell)
	if len(cfg.Groups) > 0 {
		out.Printf(render.Info, "  Groups:         %s", strings.Join(cfg.Groups, ", "))
	}
	if outcome.PasswordSet {
		out.Printf(render.Info, "  Password:       set")
	} else {
		out.Printf(render.Warning, "  Password:       not set (account is locked)")
	}
	if path := log.Path(); path != "" {
		log.Infof("run complete; log written to %s", path)
	}
}

// fail renders and logs a fatal error, including corrective advice
// when the validator supplied one, and returns the exit code for its
// category.
func fail(out *render.Renderer, log *logger.Logger, err error) int {
	log.Errorf("%v", err)
	out.Printf(render.Error, "Error: %v", err)

	var verr *validate.Error
	if errors.As(err, &verr) && verr.Advice != "" {
		out.Printf(render.Info, "%s", verr.Advice)
	}
	return exitCodeFor(err)
}

// exitCodeFor maps the error taxonomy onto process exit codes:
// environment and usage problems exit 1, validation failures exit 2,
// account-creation execution failures exit 3.
func exitCodeFor(err error) int {
	var verr *validate.Error
	if errors.As(err, &verr) {
		if verr.Category == validate.CategoryUser {
			return exitValidation
		}
		return exitUsage
	}
	var xerr *provision.ExecError
	if errors.As(err, &xerr) {
		return exitExec
	}
	return exitUsage
}

// installSignalHandler makes an interruption leave a record behind and
// exit with the conventional 128+signal status.
func installSignalHandler(log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Infof("interrupted by signal %s", sig)
		code := 128
		if s, ok := sig.(syscall.Signal); ok {
			code += int(s)
		}
		os.Exit(code)
	}()
}

// echoFunc routes log echoes through the renderer with the style of
// each severity.
func echoFunc(out *render.Renderer) logger.EchoFunc {
	classes := map[string]render.Class{
		"DEBUG":    render.Debug,
		"INFO":     render.Info,
		"WARNING":  render.Warning,
		"ERROR":    render.Error,
		"CRITICAL": render.Critical,
	}
	return func(severity, message string) {
		class, ok := classes[severity]
		if !ok {
			class = render.Info
		}
		out.Print(class, message)
	}
}
