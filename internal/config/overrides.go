package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides holds developer-local settings layered over the loaded config.
// Pointer fields distinguish "unset" from an explicit false.
type Overrides struct {
	Probe struct {
		Timeout            string `yaml:"timeout"`
		UserAgent          string `yaml:"user_agent"`
		GetFallback        *bool  `yaml:"get_fallback"`
		InsecureSkipVerify *bool  `yaml:"insecure_skip_verify"`
	} `yaml:"probe"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Tracing struct {
		OTLPEndpoint *string `yaml:"otlp_endpoint"`
	} `yaml:"tracing"`
}

// LoadOverrides reads and parses the overrides YAML file at path.
// Returns nil if the file does not exist.
// Returns an error if the file exists but cannot be read or parsed.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read overrides file %s: %w", path, err)
	}

	var overrides Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}

	return &overrides, nil
}

// ApplyOverrides applies set override fields to cfg in place.
func ApplyOverrides(cfg *Config, o *Overrides) {
	if o.Probe.Timeout != "" {
		cfg.Probe.Timeout = o.Probe.Timeout
	}
	if o.Probe.UserAgent != "" {
		cfg.Probe.UserAgent = o.Probe.UserAgent
	}
	if o.Probe.GetFallback != nil {
		cfg.Probe.GetFallback = *o.Probe.GetFallback
	}
	if o.Probe.InsecureSkipVerify != nil {
		cfg.Probe.InsecureSkipVerify = *o.Probe.InsecureSkipVerify
	}

	if o.Log.Level != "" {
		cfg.Log.Level = o.Log.Level
	}
	if o.Log.File != "" {
		cfg.Log.File = o.Log.File
	}

	if o.Tracing.OTLPEndpoint != nil {
		cfg.Tracing.OTLPEndpoint = *o.Tracing.OTLPEndpoint
	}
}
