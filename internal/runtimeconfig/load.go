package runtimeconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// EnvPrefix prefixes every environment override. A double underscore
	// separates sections: CMSADMIN_API__BASE_URL sets api.base_url.
	EnvPrefix = "CMSADMIN_"
	// DefaultFile is read from the working directory when no path is given.
	DefaultFile = "cmsadmin.yaml"
)

// flagKeys maps CLI flag names to config keys. Flags not listed are ignored.
var flagKeys = map[string]string{
	"base-url":          "api.base_url",
	"token":             "api.token",
	"timeout":           "api.timeout",
	"page-size":         "pagination.page_size",
	"sort":              "pagination.sort",
	"direction":         "pagination.direction",
	"settings-provider": "settings.provider",
	"settings-dsn":      "settings.dsn",
	"log-level":         "logging.level",
	"log-format":        "logging.format",
	"lang":              "console.language",
}

// Load layers defaults, the YAML file at path (or DefaultFile when present),
// CMSADMIN_ environment variables and explicitly set flags, in that order,
// then validates the result.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(DefaultConfig()), "."), nil); err != nil {
		return Config{}, fmt.Errorf("cms admin config: load defaults: %w", err)
	}

	if path = resolveFile(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("cms admin config: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("cms admin config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("cms admin config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("cms admin config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolveFile(path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

func envKey(name string) string {
	trimmed := strings.TrimPrefix(name, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(trimmed), "__", ".")
}

func defaultsMap(cfg Config) map[string]any {
	return map[string]any{
		"api.base_url":          cfg.API.BaseURL,
		"api.token":             cfg.API.Token,
		"api.timeout":           cfg.API.Timeout.String(),
		"api.idempotency_key":   cfg.API.IdempotencyKey,
		"pagination.page_size":  cfg.Pagination.PageSize,
		"pagination.sort":       cfg.Pagination.Sort,
		"pagination.direction":  cfg.Pagination.Direction,
		"settings.provider":     cfg.Settings.Provider,
		"settings.dsn":          cfg.Settings.DSN,
		"settings.key":          cfg.Settings.Key,
		"logging.level":         cfg.Logging.Level,
		"logging.format":        cfg.Logging.Format,
		"logging.add_source":    cfg.Logging.AddSource,
		"console.language":      cfg.Console.Language,
		"console.handoff_delay": cfg.Console.HandoffDelay.String(),
		"console.actor":         cfg.Console.Actor,
		"console.strict_tags":   cfg.Console.StrictTags,
	}
}
