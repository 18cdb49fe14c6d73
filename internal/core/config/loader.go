package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.HealthPort == 0 {
		cfg.Server.HealthPort = 9090
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = Duration(30 * time.Second)
	}
	if cfg.Watchdog.Timeout == 0 {
		cfg.Watchdog.Timeout = Duration(60 * time.Second)
	}
	if cfg.Watchdog.CheckInterval == 0 {
		cfg.Watchdog.CheckInterval = Duration(30 * time.Second)
	}
	if cfg.Replay.EmptySleep == 0 {
		cfg.Replay.EmptySleep = Duration(5 * time.Second)
	}
	if cfg.Replay.InitialDelay == 0 {
		cfg.Replay.InitialDelay = Duration(1 * time.Second)
	}
	if cfg.Replay.MaxDelay == 0 {
		cfg.Replay.MaxDelay = Duration(60 * time.Second)
	}
	if cfg.Replay.BackoffMultiple == 0 {
		cfg.Replay.BackoffMultiple = 2.0
	}

	if cfg.API.Endpoint == "" {
		return nil, fmt.Errorf("api.endpoint is required")
	}

	return &cfg, nil
}
