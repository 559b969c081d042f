// Package config loads the API credential and endpoint for a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the experiments API endpoint.
	DefaultBaseURL = "https://api.experiments.dev/v2"

	// FileName is the per-user config file, stored in the home directory.
	FileName = ".abexport.yaml"

	envAPIKey  = "ABEXPORT_API_KEY"
	envBaseURL = "ABEXPORT_BASE_URL"
)

// ErrMissingCredential means no API key was found in the environment or the
// config file. It is checked before any network activity.
var ErrMissingCredential = errors.New("no API key configured (set " + envAPIKey + " or run 'abexport setup')")

// Config is built once at process start and passed into the API client.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads configuration from the environment first, then the config file.
// Returns ErrMissingCredential when neither source provides an API key.
func Load() (Config, error) {
	cfg := Config{
		APIKey:  os.Getenv(envAPIKey),
		BaseURL: os.Getenv(envBaseURL),
	}

	if cfg.APIKey == "" || cfg.BaseURL == "" {
		file, err := loadFile()
		if err != nil {
			return Config{}, err
		}
		if cfg.APIKey == "" {
			cfg.APIKey = file.APIKey
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = file.BaseURL
		}
	}

	if cfg.APIKey == "" {
		return Config{}, ErrMissingCredential
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg, nil
}

func loadFile() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config file with owner-only permissions and returns its
// path. Used by the setup command.
func Save(cfg Config) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
