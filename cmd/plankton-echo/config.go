package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is plankton-echo's process-level configuration. The plankton
// library itself never reads configuration from disk; only this
// example binary does.
type Config struct {
	DefaultCharset string `toml:"default_charset"`
	LogLevel       string `toml:"log_level"`
}

// DefaultConfig returns the settings used for anything a config file
// leaves unset.
func DefaultConfig() Config {
	return Config{DefaultCharset: "utf-8", LogLevel: "info"}
}

// LoadConfig reads path, overlaying onto DefaultConfig whatever keys
// path actually defines.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("plankton-echo: load config %q: %w", path, err)
	}
	if meta.IsDefined("default_charset") {
		cfg.DefaultCharset = raw.DefaultCharset
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	return cfg, nil
}
