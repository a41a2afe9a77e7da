package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const (
	DefaultDatabase  = "quizdrill.db"
	DefaultQuestions = 10
)

// Load reads, parses, normalizes, and validates a config file. A missing
// file yields the normalized defaults rather than an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Config{}
			Normalize(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	if cfg.BankDir == "" {
		cfg.BankDir = "."
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Defaults.Mode == "" {
		cfg.Defaults.Mode = "random"
	}
	if cfg.Defaults.Questions == 0 {
		cfg.Defaults.Questions = DefaultQuestions
	}
	if cfg.Defaults.Start == 0 {
		cfg.Defaults.Start = 1
	}
}

// Validate rejects values Normalize cannot repair.
func Validate(cfg *Config) error {
	switch cfg.Defaults.Mode {
	case "random", "sequential":
	default:
		return fmt.Errorf("config: unknown mode %q", cfg.Defaults.Mode)
	}
	if cfg.Defaults.Questions < 1 {
		return fmt.Errorf("config: questions must be positive, got %d", cfg.Defaults.Questions)
	}
	if cfg.Defaults.Start < 1 {
		return fmt.Errorf("config: start must be positive, got %d", cfg.Defaults.Start)
	}
	return nil
}
