package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Write outcomes recorded for corrective status updates.
const (
	WriteOutcomeSucceeded = "succeeded"
	WriteOutcomeFailed    = "failed"
	WriteOutcomeDropped   = "dropped"
)

// Metrics holds the prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestCount      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errorCount        *prometheus.CounterVec
	reconcilePasses   prometheus.Counter
	reconcileDuration prometheus.Histogram
	statusMismatches  prometheus.Counter
	correctiveWrites  *prometheus.CounterVec
	staffOut          prometheus.Gauge
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "presence_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_http_errors_total",
			Help: "HTTP errors by route, method and error code.",
		}, []string{"path", "method", "code"}),
		reconcilePasses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presence_reconcile_passes_total",
			Help: "Completed reconciliation passes.",
		}),
		reconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "presence_reconcile_duration_seconds",
			Help:    "Time spent computing a reconciliation pass.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		statusMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presence_status_mismatches_total",
			Help: "Staff members whose stored status differed from the derived one.",
		}),
		correctiveWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_corrective_writes_total",
			Help: "Corrective status writes by outcome.",
		}, []string{"outcome"}),
		staffOut: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presence_staff_out_of_office",
			Help: "Staff members out of office after the last reconciliation pass.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.reconcilePasses,
		m.reconcileDuration,
		m.statusMismatches,
		m.correctiveWrites,
		m.staffOut,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordReconcile records one completed pass.
func (m *Metrics) RecordReconcile(duration time.Duration, mismatches, out int) {
	if m == nil {
		return
	}
	m.reconcilePasses.Inc()
	m.reconcileDuration.Observe(duration.Seconds())
	m.statusMismatches.Add(float64(mismatches))
	m.staffOut.Set(float64(out))
}

// RecordCorrectiveWrite counts a corrective write by outcome.
func (m *Metrics) RecordCorrectiveWrite(outcome string) {
	if m == nil {
		return
	}
	m.correctiveWrites.WithLabelValues(outcome).Inc()
}
