// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"IDC_DB_PATH" envDefault:"./data/idealcontrol.db"`
	ServerHost string `env:"IDC_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"IDC_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"IDC_ENV" envDefault:"development"`
	LogLevel   string `env:"IDC_LOG_LEVEL" envDefault:"info"`

	// Seeding configuration
	DoSeed bool `env:"IDC_DO_SEED" envDefault:"false"` // Enable database seeding

	// EventRetentionDays controls how long audit events are kept before the
	// maintenance job purges them. Zero disables the purge.
	EventRetentionDays int `env:"IDC_EVENT_RETENTION_DAYS" envDefault:"90"`

	// TrustedOrigins are extra origins allowed by CSRF protection,
	// typically the host serving the SPA frontend.
	TrustedOrigins []string `env:"IDC_TRUSTED_ORIGINS" envSeparator:","`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("IDC_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.EventRetentionDays < 0 {
		return nil, fmt.Errorf("IDC_EVENT_RETENTION_DAYS must not be negative, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}
