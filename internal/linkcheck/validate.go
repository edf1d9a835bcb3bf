package linkcheck

import (
	"net/url"
	"strings"
)

// ValidateURL checks that raw is an absolute http(s) URL with a host.
// It returns the parsed URL or an *InvalidInputError.
func ValidateURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &InvalidInputError{URL: raw, Reason: "url is required"}
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, &InvalidInputError{URL: raw, Reason: err.Error()}
	}
	if u.Scheme == "" || !u.IsAbs() {
		return nil, &InvalidInputError{URL: raw, Reason: "url must be absolute (scheme://host)"}
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, &InvalidInputError{URL: raw, Reason: "url must include a host"}
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, &InvalidInputError{URL: raw, Reason: "unsupported scheme " + u.Scheme + " (must be http or https)"}
	}

	return u, nil
}
