package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the station and log collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	cooksSaved   *prometheus.CounterVec
	saveFailures *prometheus.CounterVec
	cookDuration prometheus.Histogram
	activeCooks  prometheus.Gauge
	exports      *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		cooksSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchenlog_cooks_saved_total",
				Help: "Cooks appended to the durable log",
			},
			[]string{"staff"},
		),
		saveFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchenlog_save_failures_total",
				Help: "Saves rejected by validation or failed in the store",
			},
			[]string{"reason"},
		),
		cookDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kitchenlog_cook_duration_minutes",
				Help:    "Recorded cook durations",
				Buckets: prometheus.LinearBuckets(0, 2, 15), // 2-minute buckets
			},
		),
		activeCooks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "kitchenlog_active_cooks",
				Help: "Cooks currently in the active set",
			},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchenlog_exports_total",
				Help: "Report artifacts produced",
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(
		m.cooksSaved,
		m.saveFailures,
		m.cookDuration,
		m.activeCooks,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CookSaved(staff string, durationMin float64) {
	if m == nil {
		return
	}
	m.cooksSaved.WithLabelValues(staff).Inc()
	m.cookDuration.Observe(durationMin)
}

func (m *Metrics) SaveFailed(reason string) {
	if m == nil {
		return
	}
	m.saveFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.activeCooks.Set(float64(n))
}

func (m *Metrics) Exported(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
