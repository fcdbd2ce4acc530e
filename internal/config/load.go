package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file k3strap looks for.
const DefaultFileName = "k3strap.yaml"

// Discover returns the config file path: an explicit path wins, then
// ./k3strap.yaml, then ~/.k3strap/k3strap.yaml.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", Wrap(err, "config file %s", explicit)
		}
		return explicit, nil
	}

	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidate := filepath.Join(home, ".k3strap", DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", Errorf("no %s found in the current directory or ~/.k3strap, run `k3strap init` first", DefaultFileName)
}

// LoadFile reads and parses the configuration from a YAML file, applies
// defaults and environment overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrap(err, "failed to read config file")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, Wrap(err, "config file %s", path)
	}
	return cfg, nil
}

// Parse decodes raw YAML into a validated Config. Unknown keys are
// rejected so typos fail loudly instead of silently using a default.
func Parse(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.Waits.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
