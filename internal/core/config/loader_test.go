package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_API_ENDPOINT", "https://api.example.com/command")
	defer os.Unsetenv("TEST_API_ENDPOINT")

	path := writeConfig(t, `
api:
  endpoint: ${TEST_API_ENDPOINT}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Endpoint != "https://api.example.com/command" {
		t.Errorf("Expected endpoint https://api.example.com/command, got %s", cfg.API.Endpoint)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  endpoint: https://api.example.com/command
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.HealthPort != 9090 {
		t.Errorf("server.health_port = %d, want 9090", cfg.Server.HealthPort)
	}
	if cfg.API.Timeout.Std() != 30*time.Second {
		t.Errorf("api.timeout = %v, want 30s", cfg.API.Timeout.Std())
	}
	if cfg.Watchdog.Timeout.Std() != 60*time.Second {
		t.Errorf("watchdog.timeout = %v, want 60s", cfg.Watchdog.Timeout.Std())
	}
	if cfg.Replay.BackoffMultiple != 2.0 {
		t.Errorf("replay.backoff_multiple = %v, want 2.0", cfg.Replay.BackoffMultiple)
	}
}

func TestLoad_DurationStrings(t *testing.T) {
	path := writeConfig(t, `
api:
  endpoint: https://api.example.com/command
  timeout: 45s

watchdog:
  timeout: 2m
  check_interval: 500ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Timeout.Std() != 45*time.Second {
		t.Errorf("api.timeout = %v, want 45s", cfg.API.Timeout.Std())
	}
	if cfg.Watchdog.Timeout.Std() != 2*time.Minute {
		t.Errorf("watchdog.timeout = %v, want 2m", cfg.Watchdog.Timeout.Std())
	}
	if cfg.Watchdog.CheckInterval.Std() != 500*time.Millisecond {
		t.Errorf("watchdog.check_interval = %v, want 500ms", cfg.Watchdog.CheckInterval.Std())
	}
}

func TestLoad_MissingEndpoint(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing api.endpoint")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
api:
  endpoint: https://api.example.com/command
  timeout: banana
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
