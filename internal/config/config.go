// Package config loads the optional TOML defaults file and custom
// category tables.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional tidy configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
}

// DefaultsConfig holds persistent flag defaults. Pointer fields
// distinguish "unset" from an explicit value.
type DefaultsConfig struct {
	Recursive       *bool   `toml:"recursive"`
	MaxDepth        *int    `toml:"max_depth"`
	Duplicates      *bool   `toml:"duplicates"`
	DuplicatePolicy *string `toml:"duplicate_policy"`
	DateFormat      *string `toml:"date_format"`
	SizeThreshold   *string `toml:"size_threshold"`
	Categories      *string `toml:"categories"` // path to a custom category JSON file
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tidy", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}
