package config

// InitTemplate is written by `link-checker init`.
const InitTemplate = `version: "1.0"

probe:
  # Maximum time for one probe, measured from request start.
  timeout: 10s
  # Retry with GET when a server answers HEAD with 405 or 501.
  get_fallback: false
  insecure_skip_verify: false

log:
  # debug logs one line per check; info logs startup only.
  level: info
  file: ""

tracing:
  # OTLP/HTTP collector endpoint, e.g. http://localhost:4318. Empty disables export.
  otlp_endpoint: ""
`
