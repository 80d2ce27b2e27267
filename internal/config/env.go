package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"alpenlodge/pkg/utils"
)

// DefaultEndpoints are the Overpass interpreters tried in order.
var DefaultEndpoints = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
}

// Environment validation errors.
var (
	ErrInvalidTimeout  = errors.New("OVERPASS_TIMEOUT_SEC must be at least 1")
	ErrInvalidMaxBody  = errors.New("OVERPASS_MAX_BODY_MB must be at least 1")
	ErrInvalidEndpoint = errors.New("overpass endpoint must be an http(s) URL")
	ErrInvalidLogLevel = errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
)

// EnvConfig holds process-level settings read from the environment.
type EnvConfig struct {
	Endpoints  []string `env:"OVERPASS_ENDPOINTS" envSeparator:","`
	UserAgent  string   `env:"OVERPASS_USER_AGENT" envDefault:"ALPENLODGE-50km-Scanner/1.0"`
	LogLevel   string   `env:"LOG_LEVEL" envDefault:"info"`
	TimeoutSec int      `env:"OVERPASS_TIMEOUT_SEC" envDefault:"60"`
	MaxBodyMB  int      `env:"OVERPASS_MAX_BODY_MB" envDefault:"64"`
}

// LoadEnv loads optional .env files, then parses the environment into EnvConfig.
// Files that do not exist are skipped.
func LoadEnv(dotenvFiles ...string) (*EnvConfig, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = append([]string(nil), DefaultEndpoints...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the environment settings.
func (c *EnvConfig) Validate() error {
	if c.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.MaxBodyMB < 1 {
		return ErrInvalidMaxBody
	}

	for _, ep := range c.Endpoints {
		if !utils.IsHTTPURL(ep) {
			return fmt.Errorf("%w: %q", ErrInvalidEndpoint, ep)
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}

// Timeout returns the per-attempt fetch timeout.
func (c *EnvConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// MaxBodyBytes returns the response body cap in bytes.
func (c *EnvConfig) MaxBodyBytes() int64 {
	return int64(c.MaxBodyMB) << 20
}
