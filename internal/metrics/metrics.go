// Package metrics collects Prometheus metrics for the API and exposes them
// for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application's metric vectors.
type Collector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	balanceLookups  prometheus.Counter
	eventsPublished *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		balanceLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_point_balance_lookups_total",
			Help: "Point balances computed from the ledger.",
		}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_activity_events_published_total",
			Help: "Activity events handed to the broker, by type and outcome.",
		}, []string{"type", "outcome"}),
	}
	reg.MustRegister(c.requests, c.latency, c.balanceLookups, c.eventsPublished)
	return c
}

// RecordRequest counts one finished request.
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordBalanceLookup counts one ledger balance computation.
func (c *Collector) RecordBalanceLookup() {
	c.balanceLookups.Inc()
}

// RecordEventPublished counts a publish attempt for an activity event.
func (c *Collector) RecordEventPublished(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.eventsPublished.WithLabelValues(eventType, outcome).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
