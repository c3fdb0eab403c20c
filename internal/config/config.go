// Package config provides configuration loading for the converter service.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration.
type Config struct {
	// Listen is the HTTP server bind address.
	Listen string `koanf:"listen"`
	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Validate toggles output validation for conversions served over HTTP.
	Validate bool `koanf:"validate"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Listen:   ":8080",
		LogLevel: "info",
		Validate: true,
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// SPECCONV_ environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("SPECCONV_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SPECCONV_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
