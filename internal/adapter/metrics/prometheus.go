package metrics

import (
	"net/http"
	"strconv"
	"time"

	"exchange-relay/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relay"

// Collector implements ports.RelayMetrics on a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	relaysTotal    *prometheus.CounterVec
	relayDuration  *prometheus.HistogramVec
	cacheHitsTotal *prometheus.CounterVec
	cacheMissTotal *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewCollector registers the relay collectors plus the Go and process
// collectors on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		relaysTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of upstream relays by route and outcome",
			},
			[]string{"route", "outcome"},
		),
		relayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream relay latency by route and outcome",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "outcome"},
		),
		cacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of response cache hits",
			},
			[]string{"route"},
		),
		cacheMissTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of response cache misses",
			},
			[]string{"route"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of inbound HTTP requests by endpoint and status class",
			},
			[]string{"endpoint", "method", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Inbound HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
	}
}

// ObserveRelay records one upstream call.
func (c *Collector) ObserveRelay(route string, outcome domain.RelayOutcome, duration time.Duration) {
	c.relaysTotal.WithLabelValues(route, string(outcome)).Inc()
	c.relayDuration.WithLabelValues(route, string(outcome)).Observe(duration.Seconds())
}

// ObserveCache records a cache lookup.
func (c *Collector) ObserveCache(route string, hit bool) {
	if hit {
		c.cacheHitsTotal.WithLabelValues(route).Inc()
		return
	}
	c.cacheMissTotal.WithLabelValues(route).Inc()
}

// RecordRequest records one inbound HTTP request.
func (c *Collector) RecordRequest(endpoint, method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(endpoint, method, StatusClass(statusCode)).Inc()
	c.httpDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// StatusClass buckets an HTTP status code into a low-cardinality label.
func StatusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "success"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	case statusCode > 0:
		return strconv.Itoa(statusCode/100) + "xx"
	default:
		return "unknown"
	}
}
