package config

import "time"

// Log levels accepted by log.level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config represents the complete link-checker configuration
type Config struct {
	Version string        `yaml:"version"`
	Probe   ProbeConfig   `yaml:"probe"`
	Log     LogConfig     `yaml:"log"`
	Tracing TracingConfig `yaml:"tracing"`
}

// ProbeConfig controls how a single URL is probed
type ProbeConfig struct {
	// Timeout is a Go duration string, e.g. "10s".
	Timeout            string `yaml:"timeout"`
	UserAgent          string `yaml:"user_agent"`
	GetFallback        bool   `yaml:"get_fallback"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// LogConfig controls the diagnostic log stream
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TracingConfig controls OpenTelemetry trace export
type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// TimeoutDuration returns the parsed probe timeout.
// Callers should run Validate first; an unparseable value yields zero.
func (p ProbeConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0
	}
	return d
}
