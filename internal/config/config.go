package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "voltgrid/libs/config"
)

// Config defines the voltgrid service configuration.
type Config struct {
	HTTP struct {
		Port           string `yaml:"port" env:"VOLTGRID_HTTP_PORT"`
		AllowedOrigins string `yaml:"allowed_origins" env:"VOLTGRID_ALLOWED_ORIGINS"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"VOLTGRID_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr       string        `yaml:"addr" env:"VOLTGRID_REDIS_ADDR"`
		Password   string        `yaml:"password" env:"VOLTGRID_REDIS_PASSWORD"`
		DB         int           `yaml:"db" env:"VOLTGRID_REDIS_DB"`
		CatalogTTL time.Duration `yaml:"catalog_ttl" env:"VOLTGRID_CATALOG_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret" env:"VOLTGRID_JWT_SECRET"`
		TokenTTL  time.Duration `yaml:"token_ttl" env:"VOLTGRID_TOKEN_TTL"`
	} `yaml:"auth"`
}

// Load configuration from file/env.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.CatalogTTL = 30 * time.Second
	cfg.Auth.TokenTTL = 12 * time.Hour

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns a :port style listen address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// Origins returns the configured CORS origins, defaulting to allow-all for
// local dashboard development.
func (c *Config) Origins() []string {
	raw := strings.TrimSpace(c.HTTP.AllowedOrigins)
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
