package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate performs validation on a parsed config
func Validate(cfg *Config) error {
	var errors []string

	if cfg.Version == "" {
		errors = append(errors, "version is required")
	}

	errors = append(errors, validateProbe(cfg.Probe)...)

	switch cfg.Log.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errors = append(errors, fmt.Sprintf("log.level: invalid level '%s' (must be debug, info, warn or error)", cfg.Log.Level))
	}

	if endpoint := cfg.Tracing.OTLPEndpoint; endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("tracing.otlp_endpoint: '%s' is not an absolute URL", endpoint))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateProbe(p ProbeConfig) []string {
	var errors []string

	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		errors = append(errors, fmt.Sprintf("probe.timeout: '%s' is not a valid duration", p.Timeout))
	} else if d <= 0 {
		errors = append(errors, fmt.Sprintf("probe.timeout: must be positive, got %s", d))
	}

	if strings.ContainsAny(p.UserAgent, "\r\n") {
		errors = append(errors, "probe.user_agent: must not contain line breaks")
	}

	return errors
}
