package logging

import (
	"maps"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// WithFields attaches a copy of fields to the logger. Nil loggers and empty
// maps are returned untouched.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return logger.WithFields(copied)
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}
