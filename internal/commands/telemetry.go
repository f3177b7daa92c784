package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// TelemetryStatus is the outcome category of a command execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one command execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked once after every execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs command outcomes with duration.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = logging.EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			logger.Info("command.execute.success", args...)
		case TelemetryStatusContextError:
			logger.Error("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			logger.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}
