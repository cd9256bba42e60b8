// Package validate holds the pre-flight checks that run before any
// system mutation. Validators return categorized errors instead of
// exiting so the orchestrator decides the process exit code, and their
// collaborators are injected so the checks run without a privileged
// host.
package validate

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/m-217/mkuser/mkuser/account"
	"github.com/m-217/mkuser/mkuser/command"
)

// Category tells the orchestrator which exit code a failure maps to.
type Category int

const (
	// CategoryEnv covers missing dependencies and privileges (exit 1).
	CategoryEnv Category = iota
	// CategoryUser covers invalid usernames and shells (exit 2).
	CategoryUser
)

// Error is a failed validation with its category and, where useful,
// the corrective action the user should take.
type Error struct {
	Category Category
	Message  string
	Advice   string
}

func (e *Error) Error() string { return e.Message }

// requiredCommands are the account-management primitives this tool
// delegates to.
var requiredCommands = []string{"useradd", "passwd", "getent"}

// CheckDependencies verifies every required external command resolves,
// reporting all missing ones at once.
func CheckDependencies(runner command.Runner) error {
	var merr *multierror.Error
	for _, name := range requiredCommands {
		if _, err := runner.LookPath(name); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("required command %q not found in PATH", name))
		}
	}
	if merr == nil {
		return nil
	}
	return &Error{
		Category: CategoryEnv,
		Message:  merr.Error(),
		Advice:   "install the missing account-management tools (shadow-utils / passwd packages) and retry",
	}
}

// CheckPrivileges fails unless the effective user is root. argv is the
// invocation to suggest re-running under sudo.
func CheckPrivileges(euid int, argv []string) error {
	if euid == 0 {
		return nil
	}
	return &Error{
		Category: CategoryEnv,
		Message:  "root privileges are required to create accounts",
		Advice:   fmt.Sprintf("re-run with elevation: sudo %s", strings.Join(argv, " ")),
	}
}

// usernamePattern is the POSIX portable username rule: a lowercase
// letter or underscore, then lowercase letters, digits, underscores or
// hyphens, optionally ending in "$" for machine accounts.
var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

// reservedUsernames are well-known system account names that must
// never be handed to a new interactive user, whether or not the host
// currently has them provisioned.
var reservedUsernames = []string{
	"root", "daemon", "bin", "sys", "sync", "games", "man", "lp",
	"mail", "news", "uucp", "proxy", "www-data", "backup", "list",
	"irc", "gnats", "nobody", "systemd-network", "systemd-resolve",
	"systemd-timesync", "messagebus", "syslog", "sshd", "ftp",
	"mysql", "postgres", "ntp", "dbus", "polkitd",
}

// UserChecker validates candidate usernames against the host's
// account directory.
type UserChecker struct {
	Dir      account.Directory
	Reserved []string // extra reserved names merged with the built-in set
}

// Username runs the ordered username checks, short-circuiting on the
// first failure. On success it may still return warnings, e.g. when a
// group of the same name already exists and will become the primary
// group.
func (c *UserChecker) Username(ctx context.Context, name string) ([]string, error) {
	if name == "" {
		return nil, &Error{Category: CategoryUser, Message: "no username given"}
	}
	if len(name) > 32 {
		return nil, &Error{
			Category: CategoryUser,
			Message:  fmt.Sprintf("username %q is longer than 32 characters", name),
		}
	}
	if !usernamePattern.MatchString(name) {
		return nil, &Error{
			Category: CategoryUser,
			Message:  fmt.Sprintf("username %q is not a valid POSIX username", name),
			Advice:   "use a lowercase letter or underscore first, then lowercase letters, digits, underscores or hyphens",
		}
	}
	if c.isReserved(name) {
		return nil, &Error{
			Category: CategoryUser,
			Message:  fmt.Sprintf("username %q is reserved for system accounts", name),
		}
	}

	exists, err := c.Dir.UserExists(ctx, name)
	if err != nil {
		return nil, &Error{
			Category: CategoryEnv,
			Message:  fmt.Sprintf("could not check whether user %q exists: %v", name, err),
		}
	}
	if exists {
		return nil, &Error{
			Category: CategoryUser,
			Message:  fmt.Sprintf("user %q already exists", name),
		}
	}

	var warnings []string
	if ok, err := c.Dir.GroupExists(ctx, name); err == nil && ok {
		warnings = append(warnings,
			fmt.Sprintf("group %q already exists and will become the primary group", name))
	}
	return warnings, nil
}

func (c *UserChecker) isReserved(name string) bool {
	for _, r := range reservedUsernames {
		if name == r {
			return true
		}
	}
	for _, r := range c.Reserved {
		if name == r {
			return true
		}
	}
	return false
}

// ShellChecker validates the requested login shell.
type ShellChecker struct {
	Dir account.Directory

	// Confirm is the gate asked when the shell is executable but not
	// registered in the login-shells list; a refusal fails validation.
	Confirm func(question string, def bool) bool

	// Stat is injectable for tests; defaults to os.Stat.
	Stat func(string) (os.FileInfo, error)
}

// Shell verifies the path exists and is executable, then warns and
// asks for confirmation (default no) when it is not a registered
// login shell.
func (c *ShellChecker) Shell(ctx context.Context, path string) ([]string, error) {
	stat := c.Stat
	if stat == nil {
		stat = os.Stat
	}

	info, err := stat(path)
	if err != nil {
		return nil, &Error{
			Category: CategoryUser,
			Message:  fmt.Sprintf("shell %s does not exist", path),
		}
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return nil, &Error{
			Category: CategoryUser,
			Message:  fmt.Sprintf("shell %s is not executable", path),
		}
	}

	shells, err := c.Dir.LoginShells(ctx)
	if err != nil {
		return []string{fmt.Sprintf("could not read the login-shells list: %v", err)}, nil
	}
	for _, s := range shells {
		if s == path {
			return nil, nil
		}
	}

	warnings := []string{fmt.Sprintf("%s is not listed in /etc/shells", path)}
	question := fmt.Sprintf("Shell %s is not a registered login shell. Use it anyway?", path)
	if c.Confirm == nil || !c.Confirm(question, false) {
		return warnings, &Error{
			Category: CategoryUser,
			Message:  fmt.Sprintf("shell %s rejected: not a registered login shell", path),
		}
	}
	return warnings, nil
}
