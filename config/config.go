// Package config loads the settings a CoinEx client is built from. Values are read from an
// optional YAML file first and then overridden by the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/lukehollenback/coinex/constants"
	"github.com/lukehollenback/coinex/exchange/coinex"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials is returned by Validate when the API key or secret is absent.
var ErrMissingCredentials = errors.New("api key and api secret are required")

// Config holds the settings of a CoinEx client.
//
// Environment variables carry the COINEX_ prefix. The proxy additionally falls back to the
// conventional unprefixed HTTP_PROXY variable.
type Config struct {
	APIKey    string        `yaml:"api_key" split_words:"true"`
	APISecret string        `yaml:"api_secret" split_words:"true"`
	BaseURL   string        `yaml:"base_url" split_words:"true"`
	HTTPProxy string        `yaml:"http_proxy" envconfig:"HTTP_PROXY"`
	Timeout   time.Duration `yaml:"timeout"`
	Debug     bool          `yaml:"debug"`
}

// Load reads the YAML file at path (skipped when path is empty) and applies the environment on top
// of it.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(constants.EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	return cfg, nil
}

// Validate reports whether the configuration can produce a usable client.
func (c *Config) Validate() error {
	if c.APIKey == "" || c.APISecret == "" {
		return ErrMissingCredentials
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	return nil
}

// Options maps the configuration onto client options.
func (c *Config) Options() []coinex.Option {
	opts := []coinex.Option{
		coinex.WithProxy(c.HTTPProxy),
		coinex.WithDebugLogging(c.Debug),
	}

	if c.BaseURL != "" {
		opts = append(opts, coinex.WithBaseURL(c.BaseURL))
	}

	if c.Timeout > 0 {
		opts = append(opts, coinex.WithHTTPTimeout(c.Timeout))
	}

	return opts
}

// NewClient validates the configuration and builds a client from it. Extra options are applied
// after the configured ones.
func (c *Config) NewClient(extra ...coinex.Option) (*coinex.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return coinex.New(c.APIKey, c.APISecret, append(c.Options(), extra...)...)
}
