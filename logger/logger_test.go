package logger

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func readSink(t *testing.T, l *Logger) string {
	t.Helper()
	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("Failed to read log sink: %v", err)
	}
	return string(data)
}

func TestRecordFormat(t *testing.T) {
	l := New(Options{Dir: t.TempDir()})

	l.Infof("user %q created", "alice")

	line := strings.TrimRight(readSink(t, l), "\n")
	matched := regexp.MustCompile(
		`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] \[MAIN\] user "alice" created$`,
	).MatchString(line)
	assert.True(t, matched, "unexpected record line: %q", line)
}

func TestComponentLabel(t *testing.T) {
	l := New(Options{Dir: t.TempDir()})

	l.Component("PROVISION").Warnf("password step skipped")

	assert.Contains(t, readSink(t, l), "[WARNING] [PROVISION] password step skipped")
}

func TestCriticalLabel(t *testing.T) {
	l := New(Options{Dir: t.TempDir()})

	l.Criticalf("cannot continue")

	assert.Contains(t, readSink(t, l), "[CRITICAL] [MAIN] cannot continue")
}

func TestRecordsAppearInCallOrder(t *testing.T) {
	l := New(Options{Dir: t.TempDir()})

	l.Infof("first")
	l.Warnf("second")
	l.Errorf("third")

	content := readSink(t, l)
	first := strings.Index(content, "first")
	second := strings.Index(content, "second")
	third := strings.Index(content, "third")
	assert.True(t, first < second && second < third, "records out of order:\n%s", content)
}

func TestFallbackToTempDir(t *testing.T) {
	// Point the primary directory at an existing file so MkdirAll
	// fails and the logger falls back to the temp directory.
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, nil, 0o644); err != nil {
		t.Fatalf("Failed to create blocking file: %v", err)
	}

	l := New(Options{Dir: blocked})

	assert.NotEmpty(t, l.Path())
	assert.True(t, strings.HasPrefix(l.Path(), os.TempDir()),
		"expected fallback under %s, got %s", os.TempDir(), l.Path())
	t.Cleanup(func() { os.Remove(l.Path()) })
}

func TestEchoRules(t *testing.T) {
	var echoed []string
	echo := func(severity, message string) {
		echoed = append(echoed, severity+" "+message)
	}

	l := New(Options{Dir: t.TempDir(), Echo: echo})

	l.Infof("quiet info")
	l.Warnf("loud warning")
	l.Debugf("loud debug")

	assert.Equal(t, []string{"WARNING loud warning", "DEBUG loud debug"}, echoed)

	echoed = nil
	l.SetVerbose(true)
	l.Infof("now visible")
	assert.Equal(t, []string{"INFO now visible"}, echoed)
}
