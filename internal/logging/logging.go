// Package logging holds the process-wide changelog logger.
//
// Output is discarded until Init is called. In production mode only terse
// category identifiers are emitted; debug mode unlocks the detailed
// key-value fields (paths, raw lines, parsed records) that the engine
// attaches at debug level.
package logging

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// L is the shared logger. Replace it via Init; tests may swap in their own.
var L = charmlog.NewWithOptions(io.Discard, charmlog.Options{})

// Init enables logging to stderr. With debug set, debug-level detail
// (offending paths, raw record content) is included; otherwise only
// warning-and-above category lines are emitted.
func Init(debug bool) {
	level := charmlog.WarnLevel
	if debug {
		level = charmlog.DebugLevel
	}
	L = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "editlog",
	})
}

// Debug logs detailed diagnostics, visible only in debug mode.
func Debug(msg interface{}, keyvals ...interface{}) { L.Debug(msg, keyvals...) }

// Info logs an informational message.
func Info(msg interface{}, keyvals ...interface{}) { L.Info(msg, keyvals...) }

// Warn logs a terse failure category.
func Warn(msg interface{}, keyvals ...interface{}) { L.Warn(msg, keyvals...) }

// Error logs a terse failure category.
func Error(msg interface{}, keyvals ...interface{}) { L.Error(msg, keyvals...) }
