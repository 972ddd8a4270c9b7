// Package config loads the optional editlog CLI configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuarantineConfig controls retention of quarantined record sets.
type QuarantineConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// Config holds editlog settings.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Quarantine QuarantineConfig `yaml:"quarantine,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Debug: false,
		Quarantine: QuarantineConfig{
			RetentionDays: 30,
		},
	}
}

// Load reads a config file. A missing file yields the defaults; missing
// fields are filled from defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("cannot read config at %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
