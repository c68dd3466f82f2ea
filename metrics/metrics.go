package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analytics engine
	SummaryQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_summary_queries_total",
			Help: "Engagement summary queries by outcome",
		},
		[]string{"outcome"}, // "ok", "invalid_range", "source_unavailable", "canceled", "error"
	)

	SummaryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analytics_summary_duration_seconds",
			Help:    "Time to fetch and aggregate one engagement summary",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_events_scanned_total",
			Help: "Raw events fetched from the event log for summaries",
		},
	)

	MalformedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_malformed_records_total",
			Help: "Events skipped because of a missing field or unparseable timestamp",
		},
	)

	SummaryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_summary_cache_hits_total",
			Help: "Summaries served from the cache",
		},
	)

	SummaryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_summary_cache_misses_total",
			Help: "Summaries recomputed because the cache had no fresh entry",
		},
	)

	// Ingestion
	EventsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_events_tracked_total",
			Help: "Events appended to the activity log via the API",
		},
		[]string{"action"},
	)

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
