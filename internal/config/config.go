// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Supported store drivers.
const (
	DriverMySQL    = "mysql"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Name search modes.
const (
	// NameSearchStore leaves case handling to the store's collation.
	NameSearchStore = "store"
	// NameSearchInsensitive lower-cases both sides of the comparison.
	NameSearchInsensitive = "insensitive"
)

// Config holds the query service configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8000"`

	// Relational store holding insurance_users and policies_summ
	Database DatabaseConfig `envPrefix:"DB_"`

	// How /users/search/{name} compares names
	NameSearchMode string `env:"NAME_SEARCH_MODE" envDefault:"store"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DatabaseConfig is the static connection target of the store.
type DatabaseConfig struct {
	Driver   string `env:"DRIVER" envDefault:"mysql"`
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"PORT"`
	Name     string `env:"NAME" envDefault:"policydb"`
	User     string `env:"USER" envDefault:"admin"`
	Password string `env:"PASSWORD"`
	// Params are extra driver parameters in query-string form, e.g. "tls=true".
	Params         string        `env:"PARAMS"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate rejects values env cannot check on its own.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPgx, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.NameSearchMode {
	case NameSearchStore, NameSearchInsensitive:
	default:
		return fmt.Errorf("unsupported NAME_SEARCH_MODE %q", c.NameSearchMode)
	}

	if c.Database.Name == "" {
		return errors.New("DB_NAME must not be empty")
	}
	if c.Database.Driver != DriverSQLite && c.Database.Host == "" {
		return errors.New("DB_HOST must not be empty")
	}
	if _, err := url.ParseQuery(c.Database.Params); err != nil {
		return fmt.Errorf("invalid DB_PARAMS: %w", err)
	}

	return nil
}

// Load parses environment variables and returns a Config.
// A .env file (or the file named by ENV_FILE) is read first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
