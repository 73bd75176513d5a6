// Package logging holds the process-wide structured logger used by every
// pipeline stage. Libraries call Logger(); the command line configures it.
package logging

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var current atomic.Pointer[log.Logger]

func init() {
	current.Store(New(os.Stderr, log.InfoLevel))
}

// New builds a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "lathser",
		Level:           level,
	})
}

// Logger returns the shared logger.
func Logger() *log.Logger {
	return current.Load()
}

// SetLogger replaces the shared logger. A nil logger discards output.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = New(io.Discard, log.FatalLevel)
	}
	current.Store(l)
}

// SetLevel parses name ("debug", "info", "warn", "error") and applies it to
// the shared logger.
func SetLevel(name string) error {
	level, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	Logger().SetLevel(level)
	return nil
}

// Discard silences the shared logger. Tests use it to keep output quiet.
func Discard() {
	SetLogger(nil)
}
