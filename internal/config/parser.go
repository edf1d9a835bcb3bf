package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultVersion  = "1.0"
	defaultTimeout  = "10s"
	defaultLogLevel = LogLevelInfo
)

// Default returns the configuration used when no file is found
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// ParseConfig parses a YAML file into a Config structure and applies defaults
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := parseConfigBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return cfg, nil
}

// parseConfigBytes decodes data strictly: unknown keys are an error so typos
// do not silently fall back to defaults.
func parseConfigBytes(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in zero values
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	if cfg.Probe.Timeout == "" {
		cfg.Probe.Timeout = defaultTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}
