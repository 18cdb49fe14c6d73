package config

import (
	redisclient "github.com/keleris32/relay/internal/infra/redis"
	"github.com/keleris32/relay/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	API      APIConfig          `yaml:"api"`
	Watchdog WatchdogConfig     `yaml:"watchdog"`
	Replay   ReplayConfig       `yaml:"replay"`
	Client   ClientConfig       `yaml:"client"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds local HTTP server settings.
type ServerConfig struct {
	Port       int `yaml:"port"`        // gateway ingress
	HealthPort int `yaml:"health_port"` // health + metrics
}

// APIConfig holds backend API endpoint settings. Endpoints with a grpc://
// or grpcs:// scheme use the gRPC transport.
type APIConfig struct {
	Endpoint       string   `yaml:"endpoint"`
	SecureEndpoint string   `yaml:"secure_endpoint"`
	Timeout        Duration `yaml:"timeout"`
}

// WatchdogConfig holds the pending-request watchdog settings.
type WatchdogConfig struct {
	Timeout       Duration `yaml:"timeout"`
	CheckInterval Duration `yaml:"check_interval"`
}

// ReplayConfig holds persisted request replay settings.
type ReplayConfig struct {
	EmptySleep      Duration `yaml:"empty_sleep"`
	InitialDelay    Duration `yaml:"initial_delay"`
	MaxDelay        Duration `yaml:"max_delay"`
	BackoffMultiple float64  `yaml:"backoff_multiple"`
}

// ClientConfig identifies this client to the backend.
type ClientConfig struct {
	AppVersion string `yaml:"app_version"`
	Platform   string `yaml:"platform"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
