// Package config loads knowbot configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all knowbot configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig configures the knowledge-service transport.
type BackendConfig struct {
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the chat interface.
type UIConfig struct {
	WordWrap int  `yaml:"word_wrap"`
	ShowMeta bool `yaml:"show_meta"`
}

// LoggingConfig configures diagnostics.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:8080/api/ask",
			Timeout: "30s",
		},
		UI: UIConfig{
			WordWrap: 100,
			ShowMeta: true,
		},
	}
}

// Load reads configuration from path, if it exists, on top of defaults, then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KNOWBOT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("KNOWBOT_API_KEY"); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("KNOWBOT_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
}

// Validate checks that required settings are usable.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
		return fmt.Errorf("backend.url is invalid: %w", err)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses the backend timeout, defaulting to 30s when unset.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Backend.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil {
		return 0, fmt.Errorf("backend.timeout is invalid: %w", err)
	}
	return d, nil
}
