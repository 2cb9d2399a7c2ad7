// Package config loads the lookup CLI settings from an optional JSON file
// and environment variables. Command-line arguments are left to the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/margoul1Malin/HakBoard/internal/leakcheck"
)

const defaultConfigFile = "leakcheck.json"

// Options holds the configuration values for the application.
type Options struct {
	// BaseURL is the root of the key-authenticated LeakCheck API.
	BaseURL string `json:"base_url"`

	// PublicURL is the root of the public LeakCheck API.
	PublicURL string `json:"public_url"`

	// LogLevel is the zap level name for stderr logging.
	LogLevel string `json:"log_level"`
}

// Parse reads the config file named by CONFIG (or leakcheck.json when it
// exists), then applies LEAKCHECK_URL, LEAKCHECK_PUBLIC_URL and LOG_LEVEL.
func Parse() (*Options, error) {
	options := &Options{
		BaseURL:   leakcheck.DefaultBaseURL,
		PublicURL: leakcheck.DefaultBaseURL,
		LogLevel:  "info",
	}

	path := defaultConfigFile
	explicit := false
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		path = configPath
		explicit = true
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, options); err != nil {
			return nil, fmt.Errorf("error while parsing config file: %w", err)
		}
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("error while reading config file: %w", err)
	}

	if v := os.Getenv("LEAKCHECK_URL"); v != "" {
		options.BaseURL = v
	}
	if v := os.Getenv("LEAKCHECK_PUBLIC_URL"); v != "" {
		options.PublicURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}

	return options, nil
}
