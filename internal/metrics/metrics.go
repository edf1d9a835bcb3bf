// Package metrics exposes Prometheus instruments for link checks.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkcheckmcp.dev/internal/linkcheck"
)

const namespace = "linkcheck"

// Bundle owns a private registry and the collector registered on it.
type Bundle struct {
	Registry  *prometheus.Registry
	Collector *Collector
}

// Collector records check outcomes.
type Collector struct {
	checks    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	buildInfo *prometheus.GaugeVec
}

// NewBundle creates a registry with Go runtime collectors and link-check metrics.
func NewBundle() *Bundle {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Number of link checks by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of link checks by outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information; always 1.",
		}, []string{"version"}),
	}
	reg.MustRegister(c.checks, c.duration, c.buildInfo)

	return &Bundle{Registry: reg, Collector: c}
}

// SetBuildInfo records the running version.
func (c *Collector) SetBuildInfo(version string) {
	c.buildInfo.WithLabelValues(version).Set(1)
}

// Observe records one check result. Invalid input never reached the network,
// so it is counted but not timed.
func (c *Collector) Observe(res linkcheck.Result) {
	outcome := string(res.Kind)
	c.checks.WithLabelValues(outcome).Inc()
	if res.Kind != linkcheck.KindInvalidInput {
		c.duration.WithLabelValues(outcome).Observe(res.Duration.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (b *Bundle) Handler() http.Handler {
	return promhttp.HandlerFor(b.Registry, promhttp.HandlerOpts{})
}
