// Package config loads the client configuration from ~/.sanos/config.yaml.
// A missing file yields the defaults; environment variables in the file
// are expanded before parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL points at a locally running backend
const DefaultAPIBaseURL = "http://localhost:8000/api"

// Config represents the user's configuration
type Config struct {
	// APIBaseURL is the backend base URL, including any mount prefix
	APIBaseURL string `yaml:"api_base_url"`
	// Browser overrides the command used to open URLs. Empty picks a
	// platform default.
	Browser string `yaml:"browser"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL: DefaultAPIBaseURL,
	}
}

// DefaultPath returns the config file path (~/.sanos/config.yaml)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sanos", "config.yaml"), nil
}

// Load reads the config from path. A missing file is not an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	return cfg, nil
}
