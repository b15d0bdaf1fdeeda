// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Widget outcomes recorded by WidgetOutcome.
const (
	OutcomeInitialized = "initialized"
	OutcomeExhausted   = "exhausted"
	OutcomeCancelled   = "cancelled"
	OutcomeFailed      = "failed"
)

var (
	// Widget integration
	WidgetOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfare_widget_init_total",
			Help: "Widget instance initialization outcomes by kind",
		},
		[]string{"kind", "outcome"},
	)

	WidgetPollAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfare_widget_poll_attempts",
			Help:    "Readiness polls performed before a widget instance settled",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 20, 30},
		},
		[]string{"kind"},
	)

	VendorScriptInjections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfare_vendor_script_injections_total",
			Help: "Vendor loader scripts appended to a page",
		},
		[]string{"vendor"},
	)

	VendorScriptFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfare_vendor_script_failures_total",
			Help: "Vendor loader scripts that reported a load error",
		},
		[]string{"vendor"},
	)

	// Recently viewed
	RecentWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wayfare_recently_viewed_writes_total",
			Help: "recentlyViewed cookie writes",
		},
	)

	RecentCorrupt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wayfare_recently_viewed_corrupt_total",
			Help: "recentlyViewed cookies that failed to decode and were reset",
		},
	)

	// Popularity
	TourViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wayfare_tour_views_total",
			Help: "Tour detail views recorded",
		},
	)

	RedisBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wayfare_redis_breaker_open",
			Help: "1 when the redis circuit breaker is open",
		},
		[]string{"name"},
	)

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfare_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// WidgetOutcome records how a widget instance settled and after how many polls.
func WidgetOutcome(kind, outcome string, attempts int) {
	WidgetOutcomes.WithLabelValues(kind, outcome).Inc()
	if attempts > 0 {
		WidgetPollAttempts.WithLabelValues(kind).Observe(float64(attempts))
	}
}

// ObserveRequest records one served request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
