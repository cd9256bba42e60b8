package account

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/m-217/mkuser/mkuser/command"
)

// getent exits with 2 when the requested key does not exist.
const getentNotFound = 2

// GetentDirectory resolves accounts through getent and the host's
// registered-shells file.
type GetentDirectory struct {
	Runner     command.Runner
	ShellsPath string // defaults to /etc/shells
}

func (d *GetentDirectory) LookupUser(ctx context.Context, name string) (User, error) {
	output, err := d.Runner.Run(ctx, "getent", "passwd", name)
	if err != nil {
		if output.ExitCode == getentNotFound {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return parsePasswdLine(output.Stdout)
}

func (d *GetentDirectory) UserExists(ctx context.Context, name string) (bool, error) {
	_, err := d.LookupUser(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *GetentDirectory) GroupExists(ctx context.Context, name string) (bool, error) {
	output, err := d.Runner.Run(ctx, "getent", "group", name)
	if err != nil {
		if output.ExitCode == getentNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *GetentDirectory) LoginShells(ctx context.Context) ([]string, error) {
	path := d.ShellsPath
	if path == "" {
		path = "/etc/shells"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var shells []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		shells = append(shells, line)
	}
	return shells, nil
}

func parsePasswdLine(line string) (User, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	if len(parts) < 7 {
		return User{}, errors.New("unexpected passwd format")
	}

	uid, _ := strconv.Atoi(parts[2])
	gid, _ := strconv.Atoi(parts[3])

	return User{
		Name:    parts[0],
		UID:     uid,
		GID:     gid,
		Comment: parts[4],
		HomeDir: parts[5],
		Shell:   parts[6],
	}, nil
}
