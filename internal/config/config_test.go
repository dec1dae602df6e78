package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Unset all BALANCE_ env vars to test pure defaults
	envVars := []string{
		"BALANCE_PORT", "BALANCE_METRICS_PORT", "BALANCE_ADMIN_TOKEN",
		"BALANCE_DATABASE_URL", "BALANCE_NATS_URL", "BALANCE_DIRECTORY_URL",
		"BALANCE_DIRECTORY_TOKEN", "BALANCE_LOG_LEVEL",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8710 {
		t.Errorf("expected port 8710, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8711 {
		t.Errorf("expected metrics port 8711, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Events.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Events.URL)
	}
	if cfg.Directory.URL != "http://localhost:8080" {
		t.Errorf("expected directory URL, got %s", cfg.Directory.URL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9001
  admin_token: file-token
database:
  url: postgres://localhost/balance_test
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Server.Port)
	}
	if cfg.Server.AdminToken != "file-token" {
		t.Errorf("expected admin token from file, got %q", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/balance_test" {
		t.Errorf("unexpected database URL %q", cfg.Database.URL)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.MetricsPort != 8711 {
		t.Errorf("expected metrics port default 8711, got %d", cfg.Server.MetricsPort)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BALANCE_PORT", "9100")
	t.Setenv("BALANCE_DATABASE_URL", "postgres://db/balance")
	t.Setenv("BALANCE_NATS_URL", "nats://broker:4222")
	t.Setenv("BALANCE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://db/balance" {
		t.Errorf("unexpected database URL %q", cfg.Database.URL)
	}
	if cfg.Events.URL != "nats://broker:4222" {
		t.Errorf("unexpected nats URL %q", cfg.Events.URL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
