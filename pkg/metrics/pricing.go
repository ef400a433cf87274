package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records resolution outcomes by price source.
type PricingMetrics struct {
	duration    *prometheus.HistogramVec
	resolutions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "price_resolution_duration_seconds",
		Help:    "Duration of price resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolutions_total",
		Help: "Completed price resolutions by winning price source.",
	}, []string{"source"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolution_failures_total",
		Help: "Failed price resolutions by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, resolutions, failures)
	return &PricingMetrics{
		duration:    duration,
		resolutions: resolutions,
		failures:    failures,
	}
}

// ObserveDuration records the elapsed time of one resolution.
func (m *PricingMetrics) ObserveDuration(channel string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(channel)).Observe(elapsed.Seconds())
}

// IncResolution counts a completed resolution for the given price source.
func (m *PricingMetrics) IncResolution(source string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncFailure counts a failed resolution for the given error code.
func (m *PricingMetrics) IncFailure(code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
