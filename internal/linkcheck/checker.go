package linkcheck

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "linkcheckmcp.dev/internal/linkcheck"

// Options configures a Checker. Zero values fall back to defaults.
type Options struct {
	Timeout            time.Duration
	UserAgent          string
	GetFallback        bool
	InsecureSkipVerify bool
	Tracer             trace.Tracer
	// Transport overrides the default transport (tests).
	Transport http.RoundTripper
}

// Checker issues reachability probes. It is safe for concurrent use.
type Checker struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	getFallback bool
	tracer      trace.Tracer
}

// NewChecker creates a Checker with the given options.
func NewChecker(opts Options) *Checker {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // opt-in via config
			},
		}
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Checker{
		client:      &http.Client{Transport: transport},
		timeout:     timeout,
		userAgent:   opts.UserAgent,
		getFallback: opts.GetFallback,
		tracer:      tracer,
	}
}

// Timeout returns the per-probe timeout.
func (c *Checker) Timeout() time.Duration {
	return c.timeout
}

// Check validates rawURL and probes it once. It never returns an error:
// every failure is expressed as a Result.
func (c *Checker) Check(ctx context.Context, rawURL string) Result {
	start := time.Now()
	res := Result{
		CheckID: uuid.New().String(),
		URL:     rawURL,
	}

	u, err := ValidateURL(rawURL)
	if err != nil {
		var inv *InvalidInputError
		if errors.As(err, &inv) {
			res.Message = inv.Reason
		} else {
			res.Message = err.Error()
		}
		res.Kind = KindInvalidInput
		return res
	}

	ctx, span := c.tracer.Start(ctx, "linkcheck.probe", trace.WithAttributes(
		attribute.String("url", u.String()),
		attribute.String("linkcheck.check_id", res.CheckID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res.Method = http.MethodHead
	status, text, err := c.probe(ctx, http.MethodHead, u)
	if err == nil && c.getFallback && headRejected(status) {
		res.Method = http.MethodGet
		status, text, err = c.probe(ctx, http.MethodGet, u)
	}
	res.Duration = time.Since(start)

	span.SetAttributes(attribute.String("http.method", res.Method))

	if err != nil {
		res.Kind = KindNetworkFailure
		res.Message = c.describe(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Message)
		span.SetAttributes(attribute.String("linkcheck.outcome", string(res.Kind)))
		return res
	}

	res.StatusCode = status
	res.StatusText = text
	if status >= 200 && status < 300 {
		res.Kind = KindSuccess
	} else {
		res.Kind = KindHTTPError
	}
	span.SetAttributes(
		attribute.Int("http.status_code", status),
		attribute.String("linkcheck.outcome", string(res.Kind)),
	)
	return res
}

// probe issues a single request and returns the status without reading the body.
func (c *Checker) probe(ctx context.Context, method string, u *url.URL) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return 0, "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	resp.Body.Close()

	return resp.StatusCode, statusText(resp), nil
}

// describe turns a transport error into a one-line message.
func (c *Checker) describe(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("request timed out after %s", c.timeout)
	}
	if errors.Is(err, context.Canceled) {
		return "request was canceled"
	}

	// Drop the `Head "https://..."` prefix; the caller already knows the URL.
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		err = uerr.Err
	}
	msg := err.Error()
	if msg == "" {
		msg = "unknown network error"
	}
	return msg
}

// statusText extracts the reason phrase the server sent, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// headRejected reports whether a HEAD response means the server does not support HEAD.
func headRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}
