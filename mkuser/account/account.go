package account

import (
	"context"
	"errors"
)

// User represents an individual user account on the system.
type User struct {
	Name    string // user login name
	UID     int    // user ID
	GID     int    // group ID
	Comment string // user full name or comment
	HomeDir string // user home directory
	Shell   string // user's shell
}

// ErrNotFound is returned when a user or group lookup matches nothing.
var ErrNotFound = errors.New("account not found")

// Directory answers questions about the accounts already present on
// the host. It never mutates anything.
type Directory interface {
	// LookupUser fetches the details of an existing user.
	LookupUser(ctx context.Context, name string) (User, error)

	// UserExists reports whether a user account with this name exists.
	UserExists(ctx context.Context, name string) (bool, error)

	// GroupExists reports whether a group with this name exists.
	GroupExists(ctx context.Context, name string) (bool, error)

	// LoginShells lists the shells registered for login accounts.
	LoginShells(ctx context.Context) ([]string, error)
}
