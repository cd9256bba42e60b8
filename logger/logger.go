// Package logger writes leveled, structured records to a per-run log
// file. When the primary log directory cannot be used it falls back to
// the temp directory, and failing that to standard output; logging
// never aborts the program.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDir is the primary location for per-run log files.
const DefaultDir = "/var/log/mkuser"

// EchoFunc receives a copy of a record for terminal display. The
// severity is the label that also appears in the sink (DEBUG, INFO,
// WARNING, ERROR, CRITICAL).
type EchoFunc func(severity, message string)

// Options configures a new Logger.
type Options struct {
	Dir     string // primary log directory; DefaultDir when empty
	Verbose bool   // echo INFO records too, not only non-INFO ones
	Echo    EchoFunc
}

// Logger is the append-only record sink for one run.
type Logger struct {
	log     *logrus.Logger
	path    string // empty when records go to stdout
	verbose bool
}

// New opens the log sink and returns a ready Logger.
func New(opts Options) *Logger {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}

	l := &Logger{verbose: opts.Verbose}
	l.log = logrus.New()
	l.log.SetLevel(logrus.DebugLevel)
	l.log.SetFormatter(&recordFormatter{})

	var sink io.Writer
	l.path, sink = openSink(dir)
	l.log.SetOutput(sink)

	if opts.Echo != nil {
		l.log.AddHook(&echoHook{logger: l, echo: opts.Echo})
	}
	return l
}

// openSink tries the primary directory, then the temp directory, and
// settles for stdout when neither is writable.
func openSink(dir string) (string, io.Writer) {
	name := fmt.Sprintf("mkuser-%s.log", time.Now().Format("20060102-150405"))
	for _, d := range []string{dir, os.TempDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			continue
		}
		f, err := os.OpenFile(filepath.Join(d, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			continue
		}
		return f.Name(), f
	}
	return "", os.Stdout
}

// Path reports where records are being written; empty means stdout.
func (l *Logger) Path() string { return l.path }

// SetVerbose switches INFO echoing on or off after construction, once
// the parsed configuration is known.
func (l *Logger) SetVerbose(v bool) { l.verbose = v }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// Criticalf records a CRITICAL entry. logrus has no critical level
// below Fatal, so the label is carried as a field.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.log.WithField("severity", "CRITICAL").Errorf(format, args...)
}

// Entry is a Logger scoped to a named component.
type Entry struct {
	e *logrus.Entry
}

// Component returns an Entry whose records carry the given component
// label instead of the default MAIN.
func (l *Logger) Component(name string) Entry {
	return Entry{e: l.log.WithField("component", name)}
}

func (e Entry) Debugf(format string, args ...interface{}) { e.e.Debugf(format, args...) }
func (e Entry) Infof(format string, args ...interface{})  { e.e.Infof(format, args...) }
func (e Entry) Warnf(format string, args ...interface{})  { e.e.Warnf(format, args...) }
func (e Entry) Errorf(format string, args ...interface{}) { e.e.Errorf(format, args...) }

// recordFormatter renders "[timestamp] [LEVEL] [component] message".
type recordFormatter struct{}

func (recordFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	line := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		entry.Time.Format("2006-01-02 15:04:05"),
		severityLabel(entry),
		componentLabel(entry),
		entry.Message)
	return []byte(line), nil
}

// echoHook mirrors records to the terminal: always for non-INFO
// levels, and for INFO only in verbose mode.
type echoHook struct {
	logger *Logger
	echo   EchoFunc
}

func (h *echoHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *echoHook) Fire(entry *logrus.Entry) error {
	if entry.Level == logrus.InfoLevel && !h.logger.verbose {
		return nil
	}
	h.echo(severityLabel(entry), entry.Message)
	return nil
}

func severityLabel(entry *logrus.Entry) string {
	if s, ok := entry.Data["severity"].(string); ok && s != "" {
		return s
	}
	return strings.ToUpper(entry.Level.String())
}

func componentLabel(entry *logrus.Entry) string {
	if c, ok := entry.Data["component"].(string); ok && c != "" {
		return c
	}
	return "MAIN"
}
