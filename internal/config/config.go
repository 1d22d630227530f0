// Package config loads billingdb settings from an optional YAML file and the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the settings shared by the CLI and library callers
type Config struct {
	DatabaseURL    string        `yaml:"database_url" env:"BILLINGDB_DATABASE_URL" env-description:"postgres://, mysql:// or sqlite:// URL"`
	SchemaName     string        `yaml:"schema_name" env:"BILLINGDB_SCHEMA" env-description:"PostgreSQL schema or MySQL database to inspect"`
	LogLevel       string        `yaml:"log_level" env:"BILLINGDB_LOG_LEVEL" env-default:"info"`
	LogFormat      string        `yaml:"log_format" env:"BILLINGDB_LOG_FORMAT" env-default:"console"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"BILLINGDB_CONNECT_TIMEOUT" env-default:"10s"`
}

// Load reads the YAML file at path, if any, then applies environment overrides
// and defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return &cfg, nil
}

// Usage describes the environment variables understood by Load
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
