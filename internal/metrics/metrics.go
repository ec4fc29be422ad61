package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Flightwatch
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Provider Metrics
	ProviderFetchesTotal  prometheus.CounterVec
	ProviderFetchDuration prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Engine Metrics
	EnginePassesTotal     prometheus.CounterVec
	EnginePassDuration    prometheus.Histogram
	FlightsPolledTotal    prometheus.Counter
	ChangesDetectedTotal  prometheus.CounterVec
	RulesEvaluatedTotal   prometheus.CounterVec
	NotificationsTotal    prometheus.CounterVec
	ScheduleEntriesGauge  prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightwatch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightwatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		ProviderFetchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_provider_fetches_total",
				Help: "Flight provider lookups by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderFetchDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightwatch_provider_fetch_duration_seconds",
				Help:    "Flight provider lookup latency in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
			[]string{"provider"},
		),

		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_cache_hits_total",
				Help: "Cache hits by data class",
			},
			[]string{"prefix"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_cache_misses_total",
				Help: "Cache misses by data class",
			},
			[]string{"prefix"},
		),

		EnginePassesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_engine_passes_total",
				Help: "Engine passes by outcome",
			},
			[]string{"outcome"},
		),
		EnginePassDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flightwatch_engine_pass_duration_seconds",
				Help:    "Full engine pass duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		FlightsPolledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flightwatch_flights_polled_total",
				Help: "Tracked flights polled across all passes",
			},
		),
		ChangesDetectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_changes_detected_total",
				Help: "Change events detected by type",
			},
			[]string{"type"},
		),
		RulesEvaluatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_rules_evaluated_total",
				Help: "Rule evaluations by outcome (fired, skipped, error)",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightwatch_notifications_total",
				Help: "Notifications dispatched by transport and outcome",
			},
			[]string{"transport", "outcome"},
		),
		ScheduleEntriesGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "flightwatch_schedule_entries",
				Help: "In-memory poll schedule entries currently held",
			},
		),
	}
}
