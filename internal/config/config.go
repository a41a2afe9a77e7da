// Package config loads the application's yaml configuration.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Zero values are filled in by
// Normalize, so a partial (or absent) file is fine.
type Config struct {
	BankDir  string   `yaml:"bank_dir"`
	Database string   `yaml:"database"`
	Defaults Defaults `yaml:"defaults"`
}

// Defaults seeds a run when flags do not override it.
type Defaults struct {
	Mode      string `yaml:"mode"`
	Questions int    `yaml:"questions"`
	Start     int    `yaml:"start"`
}

// Parse decodes yaml configuration bytes.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
