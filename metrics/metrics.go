// Package metrics holds the Prometheus registry and the collectors rsalab exports.
package metrics

import (
	"database/sql"
	"net/http"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rsalab"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	OperationDuration *prometheus.HistogramVec
	Operations        *prometheus.CounterVec
	Candidates        prometheus.Counter
	SelfCheck         prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

type Option func(*Metrics)

// WithGoCollector exports Go runtime metrics.
func WithGoCollector() Option {
	return func(m *Metrics) {
		m.registry.MustRegister(collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/sched/.*")}),
		))
	}
}

// WithProcessCollector exports process CPU, memory and file descriptor metrics.
func WithProcessCollector() Option {
	return func(m *Metrics) {
		m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
}

func WithBuildInfoCollector() Option {
	return func(m *Metrics) {
		m.registry.MustRegister(collectors.NewBuildInfoCollector())
	}
}

func New(opts ...Option) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of lab operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"operation"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Lab operations by outcome.",
		}, []string{"operation", "outcome"}),
		Candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prime_candidates_total",
			Help:      "Prime candidates sampled, including rejected ones.",
		}),
		SelfCheck: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "self_check_ok",
			Help:      "1 when the last primality self-check passed.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.OperationDuration,
		m.Operations,
		m.Candidates,
		m.SelfCheck,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text or OpenMetrics format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveOperation records the duration and outcome of one lab operation.
func (m *Metrics) ObserveOperation(operation string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// RegisterPool exports the worker pool size through gauge functions.
func (m *Metrics) RegisterPool(running, capacity func() int) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "running_workers",
			Help:      "Workers currently running a task.",
		}, func() float64 { return float64(running()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "capacity",
			Help:      "Worker pool capacity.",
		}, func() float64 { return float64(capacity()) }),
	)
}

// RegisterDB exports connection pool statistics of db labelled with name.
func (m *Metrics) RegisterDB(name string, db *sql.DB) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}
