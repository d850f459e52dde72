// Package debug provides leveled diagnostic logging for dragtodo.
//
// Logging is off by default. It is enabled by setting DRAGTODO_DEBUG:
//
//	DRAGTODO_DEBUG=1 dragtodo --debug-log /tmp/dragtodo.log
//
// The terminal belongs to the board while it runs, so the usual sink is a
// file given with --debug-log (see SetOutput). Without one, messages go to
// stderr, which is only useful for the non-interactive commands.
//
// Usage:
//
//	debug.Logger().Warn("load board", "err", err)
//	debug.Log("dispatch %T", action)
//	defer debug.LogEnterExit("save")()
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	enabled bool
	out     io.Writer = io.Discard
	logger            = newLogger(io.Discard, log.DebugLevel)
)

func init() {
	if os.Getenv("DRAGTODO_DEBUG") != "" {
		enabled = true
		out = os.Stderr
		logger = newLogger(out, log.DebugLevel)
	}
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "dragtodo",
	})
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled turns logging on or off. Turning it on without an output set
// logs to stderr.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if !e {
		logger.SetOutput(io.Discard)
		return
	}
	if out == io.Discard {
		out = os.Stderr
	}
	logger.SetOutput(out)
}

// SetOutput enables logging to w at the given level ("debug", "info",
// "warn", "error"). Unknown levels mean debug.
func SetOutput(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
	out = w
	logger = newLogger(w, ParseLevel(level))
}

// ParseLevel parses a level name.
func ParseLevel(level string) log.Level {
	switch level {
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.DebugLevel
	}
}

// Logger returns the structured logger. It discards everything while
// logging is disabled, so callers never need to check Enabled first.
func Logger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if !Enabled() {
		return
	}
	Logger().Debug(fmt.Sprintf(format, args...))
}

// LogTiming records how long an operation took.
func LogTiming(name string, d time.Duration) {
	if !Enabled() {
		return
	}
	Logger().Debug("timing", "op", name, "took", d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("save")()
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	Logger().Debug("enter", "op", name)
	start := time.Now()
	return func() {
		Logger().Debug("exit", "op", name, "took", time.Since(start))
	}
}
