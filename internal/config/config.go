// Package config loads settings from an optional YAML file, a .env file and
// environment variables. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values for the application.
type Config struct {
	// Database connection string
	DatabaseURL string

	// HTTP server port for the API
	HTTPPort int

	// Role IDs compared against users.user_type. Admin and super admin have
	// no default: when unset, nobody is treated as an administrator.
	AdminRoleID      string
	SuperAdminRoleID string
	CustomerRoleID   string
	TranslatorRoleID string

	// Shared secret for the distance feed. Empty disables the check.
	FeedSecret string

	// Per-user request rate (requests/second) and burst. A zero rate
	// disables limiting.
	RateLimit      float64
	RateLimitBurst int

	LogLevel string

	// OpenTelemetry collector (gRPC)
	OTELEndpoint string
}

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"database_url":       "DATABASE_URL",
	"http_port":          "PORT",
	"admin_role_id":      "ADMIN_ROLE_ID",
	"superadmin_role_id": "SUPERADMIN_ROLE_ID",
	"customer_role_id":   "CUSTOMER_ROLE_ID",
	"translator_role_id": "TRANSLATOR_ROLE_ID",
	"feed_secret":        "FEED_SECRET",
	"rate_limit":         "RATE_LIMIT",
	"rate_limit_burst":   "RATE_LIMIT_BURST",
	"log_level":          "LOG_LEVEL",
	"otel_endpoint":      "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// Load reads configuration. path names an optional YAML file; pass "" to
// use environment variables (and .env) only.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("http_port", 8000)
	v.SetDefault("customer_role_id", "1")
	v.SetDefault("translator_role_id", "2")
	v.SetDefault("rate_limit", 10.0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("log_level", "info")
	v.SetDefault("otel_endpoint", "localhost:4317")

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		DatabaseURL:      strings.TrimSpace(v.GetString("database_url")),
		HTTPPort:         v.GetInt("http_port"),
		AdminRoleID:      strings.TrimSpace(v.GetString("admin_role_id")),
		SuperAdminRoleID: strings.TrimSpace(v.GetString("superadmin_role_id")),
		CustomerRoleID:   strings.TrimSpace(v.GetString("customer_role_id")),
		TranslatorRoleID: strings.TrimSpace(v.GetString("translator_role_id")),
		FeedSecret:       v.GetString("feed_secret"),
		RateLimit:        v.GetFloat64("rate_limit"),
		RateLimitBurst:   v.GetInt("rate_limit_burst"),
		LogLevel:         v.GetString("log_level"),
		OTELEndpoint:     v.GetString("otel_endpoint"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database_url is required (env: DATABASE_URL)")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port %d (env: PORT)", c.HTTPPort)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate_limit_burst must be at least 1, got %d", c.RateLimitBurst)
	}
	return nil
}
