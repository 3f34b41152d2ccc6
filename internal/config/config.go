package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string
	// SourceTimeout bounds each individual dashboard data source fetch.
	SourceTimeout time.Duration
	// MigrationsDir, when set, runs pending schema migrations at startup.
	MigrationsDir string
}

func Load() (*Config, error) {
	sourceTimeout, err := time.ParseDuration(getEnv("DASHBOARD_SOURCE_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("parse DASHBOARD_SOURCE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		HTTPListenAddr: getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceName:    getEnv("SERVICE_NAME", "admin-api"),
		SourceTimeout:  sourceTimeout,
		MigrationsDir:  getEnv("MIGRATIONS_DIR", ""),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("DASHBOARD_SOURCE_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
