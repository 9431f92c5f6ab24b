// Package synthlog is the process-wide structured logger. Log lines carry
// a Category tag distinguishing routine traffic (Recv/Xmit) from process
// lifecycle (Info/Warn/Debug), on top of charmbracelet/log's level and
// timestamp handling.
package synthlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Category is a named line kind, orthogonal to the logger's level, so
// call sites can tag a line's subsystem without picking a level for it.
type Category int

const (
	Info Category = iota
	Warn
	Recv
	Xmit
	Debug
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.000",
})

// SetLevel adjusts the minimum emitted level. Tests use this to silence
// routine output.
func SetLevel(l log.Level) {
	logger.SetLevel(l)
}

func fields(cat Category, kv []any) []any {
	out := make([]any, 0, len(kv)+2)
	out = append(out, "cat", categoryName(cat))
	out = append(out, kv...)

	return out
}

func categoryName(cat Category) string {
	switch cat {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Recv:
		return "recv"
	case Xmit:
		return "xmit"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// Printf logs a freeform line under the given category.
func Printf(cat Category, msg string, kv ...any) {
	switch cat {
	case Warn:
		logger.Warn(msg, fields(cat, kv)...)
	case Debug:
		logger.Debug(msg, fields(cat, kv)...)
	default:
		logger.Info(msg, fields(cat, kv)...)
	}
}

// Error logs a non-exiting error line with chained context.
func Error(msg string, err error, kv ...any) {
	full := append([]any{"err", err}, kv...)
	logger.Error(msg, full...)
}

// Fatal logs and exits the process with status 1, used only from
// cmd/midi-synth at the top of main's error path.
func Fatal(msg string, err error, kv ...any) {
	full := append([]any{"err", err}, kv...)
	logger.Fatal(msg, full...)
}
