package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const (
	rootModule      = "admin"
	datagridModule  = "admin.datagrid"
	settingsModule  = "admin.settings"
	transportModule = "admin.transport"
	consoleModule   = "admin.console"
)

const (
	fieldResource = "resource"
	fieldAction   = "action"
	fieldEntityID = "entity_id"
)

// ModuleLogger returns a module-scoped logger. A nil provider yields a no-op
// logger so callers never need to nil-check.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DatagridLogger returns the logger namespace used by the data-management engine.
func DatagridLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, datagridModule)
}

// SettingsLogger returns the logger namespace used by the settings store.
func SettingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, settingsModule)
}

// TransportLogger returns the logger namespace used by the REST client.
func TransportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, transportModule)
}

// ConsoleLogger returns the logger namespace used by the terminal console.
func ConsoleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, consoleModule)
}

// WithResourceContext enriches the logger with the resource, action and entity
// being worked on. Empty values are skipped.
func WithResourceContext(logger interfaces.Logger, resource, action, id string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(resource); trimmed != "" {
		fields[fieldResource] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldEntityID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
