package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// UIConfig holds the presentation client configuration.
type UIConfig struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	UIPort int    `env:"UI_PORT" envDefault:"8501"`

	// Query service the UI talks to
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// IsDevelopment returns true if running in development mode.
func (c *UIConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate checks the API base URL and timeout.
func (c *UIConfig) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("API_BASE_URL must include a host")
	}
	if c.APITimeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}
	c.APIBaseURL = strings.TrimSuffix(c.APIBaseURL, "/")
	return nil
}

// LoadUI parses environment variables and returns a UIConfig.
func LoadUI() (*UIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &UIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
