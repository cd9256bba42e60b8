// Package provision composes and executes the privileged
// account-creation and password-assignment operations.
package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-217/mkuser/logger"
	"github.com/m-217/mkuser/mkuser/account"
	"github.com/m-217/mkuser/mkuser/cli"
	"github.com/m-217/mkuser/mkuser/command"
)

// ExecError reports a failed account-creation invocation with the
// exact exit code of the delegated command.
type ExecError struct {
	Command  string
	ExitCode int
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d", e.Command, e.ExitCode)
}

// Outcome is what a provisioning run produced, for final reporting.
type Outcome struct {
	Created     bool
	HomeDir     string
	Shell       string
	PasswordSet bool
}

// Provisioner creates accounts through the injected runner and reports
// through the injected directory.
type Provisioner struct {
	Runner command.Runner
	Dir    account.Directory
	Log    *logger.Logger
}

// Provision creates the account described by cfg. In dry-run mode it
// only logs the assembled invocation and the home directory that would
// be created. A password-step failure is a warning, not an error: the
// account stays locked but the run still succeeds.
func (p *Provisioner) Provision(ctx context.Context, cfg *cli.Config) (Outcome, error) {
	log := p.Log.Component("PROVISION")
	args := useraddArgs(cfg)
	home := "/home/" + cfg.Username

	if cfg.DryRun {
		log.Infof("dry-run: would execute: useradd %s", strings.Join(args, " "))
		log.Infof("dry-run: would create home directory %s", home)
		return Outcome{HomeDir: home, Shell: cfg.Shell}, nil
	}

	log.Debugf("executing: useradd %s", strings.Join(args, " "))
	result, err := p.Runner.Run(ctx, "useradd", args...)
	if err != nil {
		log.Errorf("useradd exited with code %d: %s",
			result.ExitCode, strings.TrimSpace(result.Stderr))
		return Outcome{}, &ExecError{Command: "useradd", ExitCode: result.ExitCode}
	}

	outcome := Outcome{Created: true, HomeDir: home, Shell: cfg.Shell}
	if u, err := p.Dir.LookupUser(ctx, cfg.Username); err == nil {
		outcome.HomeDir = u.HomeDir
		outcome.Shell = u.Shell
	} else {
		log.Warnf("could not look up created account %q: %v", cfg.Username, err)
	}
	log.Infof("created user %q with home %s and shell %s",
		cfg.Username, outcome.HomeDir, outcome.Shell)

	if cfg.SkipPassword {
		log.Infof("password step skipped; account %q stays locked until a password is set", cfg.Username)
		return outcome, nil
	}

	if err := p.Runner.RunInteractive(ctx, "passwd", cfg.Username); err != nil {
		log.Warnf("password step for %q failed or was cancelled; account remains locked: %v",
			cfg.Username, err)
		return outcome, nil
	}
	outcome.PasswordSet = true
	log.Infof("password set for user %q", cfg.Username)
	return outcome, nil
}

// useraddArgs assembles the creation invocation: home directory
// creation on, shell from config, groups and comment only when set,
// username last.
func useraddArgs(cfg *cli.Config) []string {
	args := []string{"-m", "-s", cfg.Shell}
	if len(cfg.Groups) > 0 {
		args = append(args, "-G", strings.Join(cfg.Groups, ","))
	}
	if cfg.Comment != "" {
		args = append(args, "-c", cfg.Comment)
	}
	return append(args, cfg.Username)
}
