// Package metrics Prometheus collectors for checkout, status changes and HTTP traffic
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeOK label value of a successful operation; failures use the error code
const OutcomeOK = "ok"

// Recorder what the application services report
type Recorder interface {
	ObserveCheckout(outcome string, items int, elapsed time.Duration)
	ObserveStatusChange(from, to, outcome string)
	ObserveRetry(operation string)
}

// Nop discards everything
type Nop struct{}

func (Nop) ObserveCheckout(string, int, time.Duration) {}
func (Nop) ObserveStatusChange(string, string, string) {}
func (Nop) ObserveRetry(string)                        {}

// Metrics collectors on a private registry, so several instances can coexist in tests
type Metrics struct {
	registry *prometheus.Registry

	checkouts       *prometheus.CounterVec
	checkoutSeconds *prometheus.HistogramVec
	checkoutItems   prometheus.Histogram
	statusChanges   *prometheus.CounterVec
	retries         *prometheus.CounterVec

	requests       *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		checkoutSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "duration_seconds",
			Help:      "Checkout latency including storage retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		checkoutItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "order_lines",
			Help:      "Lines per placed order.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Status change requests by transition and outcome.",
		}, []string{"from", "to", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "retries_total",
			Help:      "Unit of work attempts repeated after a transient conflict.",
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.checkouts, m.checkoutSeconds, m.checkoutItems,
		m.statusChanges, m.retries,
		m.requests, m.requestSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveCheckout(outcome string, items int, elapsed time.Duration) {
	m.checkouts.WithLabelValues(outcome).Inc()
	m.checkoutSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.checkoutItems.Observe(float64(items))
	}
}

func (m *Metrics) ObserveStatusChange(from, to, outcome string) {
	m.statusChanges.WithLabelValues(from, to, outcome).Inc()
}

func (m *Metrics) ObserveRetry(operation string) {
	m.retries.WithLabelValues(operation).Inc()
}

// ObserveRequest route is the matched pattern, never the raw path
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the private registry for tests and custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var (
	_ Recorder = Nop{}
	_ Recorder = (*Metrics)(nil)
)
