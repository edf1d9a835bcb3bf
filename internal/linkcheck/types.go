// Package linkcheck probes a single URL and classifies the outcome.
package linkcheck

import (
	"fmt"
	"time"
)

// DefaultTimeout bounds a single probe, measured from request start.
const DefaultTimeout = 10 * time.Second

// Kind discriminates the shape of a Result.
type Kind string

const (
	// KindSuccess means the probe completed with a 2xx status.
	KindSuccess Kind = "success"
	// KindHTTPError means the probe completed with a status outside 2xx.
	KindHTTPError Kind = "http_error"
	// KindNetworkFailure means the probe could not complete.
	KindNetworkFailure Kind = "network_failure"
	// KindInvalidInput means the URL was rejected before any network call.
	KindInvalidInput Kind = "invalid_input"
)

// CheckRequest is the input of one check_link invocation.
type CheckRequest struct {
	URL string `json:"url"`
}

// Result is the outcome of one check. StatusCode and StatusText are set for
// KindSuccess and KindHTTPError; Message is set for KindNetworkFailure and
// KindInvalidInput.
type Result struct {
	Kind       Kind
	StatusCode int
	StatusText string
	Message    string

	CheckID  string
	URL      string
	Method   string
	Duration time.Duration
}

// IsError reports whether the result should be flagged as an error to the host.
// HTTP error statuses are ordinary results: the probe itself worked.
func (r Result) IsError() bool {
	return r.Kind == KindNetworkFailure || r.Kind == KindInvalidInput
}

// Text renders the one-line human-readable message returned to the host.
func (r Result) Text() string {
	switch r.Kind {
	case KindSuccess:
		return fmt.Sprintf("The link is valid! Status: %d (%s)", r.StatusCode, r.StatusText)
	case KindHTTPError:
		return fmt.Sprintf("The link returned an error. Status: %d (%s)", r.StatusCode, r.StatusText)
	case KindInvalidInput:
		return fmt.Sprintf("Invalid URL: %s", r.Message)
	default:
		return fmt.Sprintf("Failed to reach the URL. Error: %s", r.Message)
	}
}

// InvalidInputError reports a URL that cannot be probed.
type InvalidInputError struct {
	URL    string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}
