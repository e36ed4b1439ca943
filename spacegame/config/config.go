package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	APIURL    string `env:"FAST_API_URL"`
	TokenDir  string `env:"SPACEGAME_TOKEN_DIR"`
	LogLevel  string `env:"LOG_LEVEL" default:"warn"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if there is one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("FAST_API_URL is required")
	}

	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("FAST_API_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("FAST_API_URL must be an http or https URL, got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("FAST_API_URL has no host: %q", c.APIURL)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	return nil
}
