package runtimeconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmsadmin.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadUsesDefaultsWithoutSources(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := runtimeconfig.Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := runtimeconfig.DefaultConfig()
	if cfg.API.BaseURL != want.API.BaseURL || cfg.API.Timeout != want.API.Timeout {
		t.Fatalf("expected default api config, got %+v", cfg.API)
	}
	if cfg.Pagination != want.Pagination {
		t.Fatalf("expected default pagination, got %+v", cfg.Pagination)
	}
	if cfg.Console.HandoffDelay != 100*time.Millisecond {
		t.Fatalf("expected default handoff delay, got %v", cfg.Console.HandoffDelay)
	}
}

func TestLoadLayersFileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://file.example.com
  token: file-token
  timeout: 5s
pagination:
  page_size: 50
logging:
  level: debug
  format: json
`)
	t.Setenv("CMSADMIN_API__TOKEN", "env-token")
	t.Setenv("CMSADMIN_PAGINATION__PAGE_SIZE", "20")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "", "")
	flags.Int("page-size", 0, "")
	flags.String("unrelated", "", "")
	if err := flags.Parse([]string{"--page-size", "25", "--unrelated", "x"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := runtimeconfig.Load(path, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://file.example.com" {
		t.Fatalf("expected base url from file, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "env-token" {
		t.Fatalf("expected env to override file token, got %q", cfg.API.Token)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Pagination.PageSize != 25 {
		t.Fatalf("expected flag to override env page size, got %d", cfg.Pagination.PageSize)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("expected logging from file, got %+v", cfg.Logging)
	}
	if cfg.Settings.Key != "settings" {
		t.Fatalf("expected default settings key kept, got %q", cfg.Settings.Key)
	}
}

func TestLoadValidatesResult(t *testing.T) {
	path := writeConfig(t, "pagination:\n  page_size: -1\n")

	if _, err := runtimeconfig.Load(path, nil); err == nil {
		t.Fatalf("expected validation error for negative page size")
	}
}

func TestLoadReportsMissingExplicitFile(t *testing.T) {
	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
