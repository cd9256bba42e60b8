// Package config loads optional site defaults for mkuser from an ini
// file. A missing file is not an error; the built-in defaults apply.
package config

import (
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultPath is where the site defaults file is looked up.
const DefaultPath = "/etc/mkuser/mkuser.conf"

// Defaults carries site-wide settings that flags can still override.
type Defaults struct {
	Shell         string   // login shell when --shell is absent
	LogDir        string   // primary log directory
	ReservedUsers []string // extra reserved names on top of the built-in set
}

func builtin() Defaults {
	return Defaults{
		Shell:  "/bin/bash",
		LogDir: "/var/log/mkuser",
	}
}

// Load reads the defaults file at path. When the file does not exist
// the built-in defaults are returned with a nil error; an unreadable
// or malformed file returns the built-ins plus the error so the caller
// can log a warning and continue.
func Load(path string) (Defaults, error) {
	d := builtin()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return d, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return d, err
	}

	defaults := cfg.Section("defaults")
	if v := defaults.Key("shell").String(); v != "" {
		d.Shell = v
	}
	if v := defaults.Key("log_dir").String(); v != "" {
		d.LogDir = v
	}

	for _, name := range cfg.Section("reserved").Key("users").Strings(",") {
		name = strings.TrimSpace(name)
		if name != "" {
			d.ReservedUsers = append(d.ReservedUsers, name)
		}
	}
	return d, nil
}
