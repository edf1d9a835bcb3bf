package config

import (
	"fmt"
	"os"

	"linkcheckmcp.dev/internal/dirs"
)

// LoadConfig loads and validates the configuration.
// It searches in the following priority order:
// 1. Custom path (if provided; must exist)
// 2. ./link-checker.yaml
// 3. ./.link-checker/config.yaml
//
// When no file is found the defaults are returned with loaded=false.
// A local overrides file is applied on top of whatever was loaded.
func LoadConfig(customPath string) (cfg *Config, loaded bool, err error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err != nil {
			return nil, false, fmt.Errorf("config file %s: %w", customPath, err)
		}
	}

	searchPaths := []string{
		customPath,
		dirs.ConfigFile,
		dirs.HiddenConfigFile,
	}

	for _, path := range searchPaths {
		if path == "" {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}

		cfg, err = ParseConfig(path)
		if err != nil {
			return nil, false, err
		}
		loaded = true
		break
	}

	if cfg == nil {
		cfg = Default()
	}

	overrides, err := LoadOverrides(dirs.OverridesFile)
	if err != nil {
		return nil, false, err
	}
	if overrides != nil {
		ApplyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, false, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, loaded, nil
}
