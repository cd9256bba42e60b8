package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNoArguments(t *testing.T) {
	_, _, err := Parse(nil, "")

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseHelp(t *testing.T) {
	for _, args := range [][]string{
		{"--help"},
		{"-h"},
		{"alice", "--help", "--dry-run"},
	} {
		_, _, err := Parse(args, "")
		assert.ErrorIs(t, err, ErrHelp)
	}
}

func TestParseUsernameAndDefaults(t *testing.T) {
	cfg, warnings, err := Parse([]string{"alice"}, "")

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "/bin/bash", cfg.Shell)
	assert.Empty(t, cfg.Groups)
	assert.False(t, cfg.SkipPassword)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.Verbose)
}

func TestParseAllFlags(t *testing.T) {
	cfg, warnings, err := Parse([]string{
		"bob",
		"--groups", "wheel, docker,,dev",
		"--shell", "/bin/zsh",
		"--comment", "Bob Example",
		"--no-password",
		"--dry-run",
		"--verbose",
	}, "/bin/bash")

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "bob", cfg.Username)
	assert.Equal(t, []string{"wheel", "docker", "dev"}, cfg.Groups)
	assert.Equal(t, "/bin/zsh", cfg.Shell)
	assert.Equal(t, "Bob Example", cfg.Comment)
	assert.True(t, cfg.SkipPassword)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Verbose)
}

func TestParseDefaultShellOverride(t *testing.T) {
	cfg, _, err := Parse([]string{"alice"}, "/bin/zsh")
	assert.NoError(t, err)
	assert.Equal(t, "/bin/zsh", cfg.Shell)

	cfg, _, err = Parse([]string{"alice", "--shell", "/bin/fish"}, "/bin/zsh")
	assert.NoError(t, err)
	assert.Equal(t, "/bin/fish", cfg.Shell)
}

func TestParseMissingFlagValue(t *testing.T) {
	for _, args := range [][]string{
		{"alice", "--shell"},
		{"alice", "--groups"},
		{"alice", "--comment", "--dry-run"},
		{"--shell", "--verbose", "alice"},
	} {
		_, _, err := Parse(args, "")

		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "args %v", args)
	}
}

func TestParseUnknownFlagWarns(t *testing.T) {
	cfg, warnings, err := Parse([]string{"alice", "--force", "--dry-run"}, "")

	assert.NoError(t, err)
	assert.Equal(t, "alice", cfg.Username)
	assert.True(t, cfg.DryRun)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "--force")
}

func TestParseExtraPositionalWarns(t *testing.T) {
	cfg, warnings, err := Parse([]string{"alice", "bob", "carol"}, "")

	assert.NoError(t, err)
	assert.Equal(t, "alice", cfg.Username)
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "bob")
	assert.Contains(t, warnings[1], "carol")
}

func TestParseNoUsername(t *testing.T) {
	// Missing username is not a parse error; validation rejects it
	// later with its own exit code.
	cfg, warnings, err := Parse([]string{"--dry-run"}, "")

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "", cfg.Username)
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	Usage(&buf)

	out := buf.String()
	assert.Contains(t, out, "Usage: mkuser <username>")
	for _, flag := range []string{"--groups", "--shell", "--comment", "--no-password", "--dry-run", "--verbose", "--help"} {
		assert.Contains(t, out, flag)
	}
}
