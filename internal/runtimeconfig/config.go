package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrBaseURLRequired         = errors.New("cms admin config: api base url is required")
	ErrBaseURLInvalid          = errors.New("cms admin config: api base url must be an absolute http(s) url")
	ErrTimeoutInvalid          = errors.New("cms admin config: api timeout must be zero or positive")
	ErrPageSizeInvalid         = errors.New("cms admin config: page size must be positive")
	ErrSortDirectionInvalid    = errors.New("cms admin config: sort direction must be asc or desc")
	ErrSettingsProviderUnknown = errors.New("cms admin config: settings provider is invalid")
	ErrSettingsDSNRequired     = errors.New("cms admin config: settings dsn is required for the bun provider")
	ErrSettingsKeyRequired     = errors.New("cms admin config: settings storage key is required")
	ErrLoggingLevelInvalid     = errors.New("cms admin config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("cms admin config: logging format is invalid")
	ErrHandoffDelayInvalid     = errors.New("cms admin config: console handoff delay must be zero or positive")
)

// Config aggregates every runtime setting of the admin console.
type Config struct {
	API        APIConfig        `koanf:"api"`
	Pagination PaginationConfig `koanf:"pagination"`
	Settings   SettingsConfig   `koanf:"settings"`
	Logging    LoggingConfig    `koanf:"logging"`
	Console    ConsoleConfig    `koanf:"console"`
}

// APIConfig points the console at the admin REST API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
	// IdempotencyKey seeds the deterministic Idempotency-Key header sent on
	// creates. Empty disables the header.
	IdempotencyKey string `koanf:"idempotency_key"`
	// Routes overrides the default endpoint layout. Only settable from code.
	Routes *urlkit.Config `koanf:"-"`
}

// PaginationConfig holds the default page and sort for every collection.
type PaginationConfig struct {
	PageSize  int    `koanf:"page_size"`
	Sort      string `koanf:"sort"`
	Direction string `koanf:"direction"`
}

// SettingsConfig selects where the persisted settings blob lives.
type SettingsConfig struct {
	Provider string `koanf:"provider"`
	DSN      string `koanf:"dsn"`
	Key      string `koanf:"key"`
}

// LoggingConfig configures the go-logger provider.
type LoggingConfig struct {
	Level     string   `koanf:"level"`
	Format    string   `koanf:"format"`
	AddSource bool     `koanf:"add_source"`
	Focus     []string `koanf:"focus"`
}

// ConsoleConfig tunes the interactive console.
type ConsoleConfig struct {
	Language     string        `koanf:"language"`
	HandoffDelay time.Duration `koanf:"handoff_delay"`
	Actor        string        `koanf:"actor"`
	// StrictTags rejects tags outside the settings vocabulary.
	StrictTags bool `koanf:"strict_tags"`
}

// DefaultConfig returns the defaults used before any file, env or flag layer.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Pagination: PaginationConfig{
			PageSize:  10,
			Sort:      "updatedAt",
			Direction: "desc",
		},
		Settings: SettingsConfig{
			Provider: "memory",
			Key:      "settings",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Console: ConsoleConfig{
			Language:     "EN",
			HandoffDelay: 100 * time.Millisecond,
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	base := strings.TrimSpace(cfg.API.BaseURL)
	if base == "" {
		return ErrBaseURLRequired
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%w: %s", ErrBaseURLInvalid, base)
	}
	if cfg.API.Timeout < 0 {
		return ErrTimeoutInvalid
	}
	if cfg.Pagination.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrPageSizeInvalid, cfg.Pagination.PageSize)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Pagination.Direction)) {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: %s", ErrSortDirectionInvalid, cfg.Pagination.Direction)
	}
	switch provider := normalize(cfg.Settings.Provider); provider {
	case "memory":
	case "bun":
		if strings.TrimSpace(cfg.Settings.DSN) == "" {
			return ErrSettingsDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrSettingsProviderUnknown, provider)
	}
	if strings.TrimSpace(cfg.Settings.Key) == "" {
		return ErrSettingsKeyRequired
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	if cfg.Console.HandoffDelay < 0 {
		return ErrHandoffDelayInvalid
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
