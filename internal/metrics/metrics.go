package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const Namespace = "dealsadmin"

// StatusTransportError labels calls that never got an HTTP response.
const StatusTransportError = "transport_error"

// Metrics holds the dashboard collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	apiRequests  *prometheus.CounterVec
	apiDuration  *prometheus.HistogramVec
	decisions    *prometheus.CounterVec
	pendingDeals prometheus.Gauge
	views        prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "admin_api_requests_total",
			Help:      "Admin API calls by operation and response status.",
		}, []string{"operation", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "admin_api_request_duration_seconds",
			Help:      "Admin API call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "review_decisions_total",
			Help:      "Review actions by action and outcome.",
		}, []string{"action", "outcome"}),
		pendingDeals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pending_deals",
			Help:      "Deals waiting for validation, as last seen by the watcher.",
		}),
		views: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "open_views",
			Help:      "Review views currently held in memory.",
		}),
	}

	registry.MustRegister(
		m.apiRequests,
		m.apiDuration,
		m.decisions,
		m.pendingDeals,
		m.views,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveAPICall records one admin API call. status is the HTTP status code,
// or 0 when the transport failed.
func (m *Metrics) ObserveAPICall(operation string, status int, elapsed time.Duration) {
	label := StatusTransportError
	if status != 0 {
		label = strconv.Itoa(status)
	}

	m.apiRequests.WithLabelValues(operation, label).Inc()
	m.apiDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDecision(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}

	m.decisions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) SetPendingDeals(n int) {
	m.pendingDeals.Set(float64(n))
}

func (m *Metrics) ViewOpened() {
	m.views.Inc()
}

func (m *Metrics) ViewClosed() {
	m.views.Dec()
}
