package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Inbox    InboxConfig    `yaml:"inbox"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds the HTTP server configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// AuthConfig holds the bearer token configuration for the API surface.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// InboxConfig holds configuration for the tee-time confirmation watcher.
type InboxConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BaseURL           string        `yaml:"base_url"`
	Token             string        `yaml:"token"`
	Query             string        `yaml:"query"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, fall back to environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (set postgres.dsn or DATABASE_URL)")
	}

	return &cfg, nil
}

func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (set postgres.dsn or DATABASE_URL)")
	}

	return &cfg, nil
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("INBOX_BASE_URL"); v != "" {
		cfg.Inbox.BaseURL = v
	}
	if v := os.Getenv("INBOX_TOKEN"); v != "" {
		cfg.Inbox.Token = v
	}
	if v := os.Getenv("INBOX_QUERY"); v != "" {
		cfg.Inbox.Query = v
	}
	if v := os.Getenv("INBOX_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Inbox.PollInterval = d
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Inbox.Query == "" {
		cfg.Inbox.Query = "is:unread subject:(Tee Time Confirmation)"
	}
	if cfg.Inbox.PollInterval <= 0 {
		cfg.Inbox.PollInterval = 5 * time.Minute
	}
	if cfg.Inbox.RequestsPerSecond <= 0 {
		cfg.Inbox.RequestsPerSecond = 2
	}
}
