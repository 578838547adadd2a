// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the query service: engine query performance, API
// request/error rates, and sample-cache efficiency.

var (
	// EngineQueryDuration tracks compiled-query execution time against the
	// embedded engine, labeled by graph_type so samples/table/timeseries
	// costs are distinguishable.
	EngineQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scubaduck_engine_query_duration_seconds",
			Help:    "Duration of compiled queries against the embedded engine",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"graph_type"},
	)

	// EngineQueryErrors counts query failures, labeled by the apierr.Kind
	// that resulted.
	EngineQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scubaduck_engine_query_errors_total",
			Help: "Total query errors by error kind",
		},
		[]string{"kind"},
	)

	// APIRequestsTotal counts every routed request by path and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scubaduck_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"route", "status_code"},
	)

	// APIRequestDuration tracks end-to-end request latency by route.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scubaduck_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route"},
	)

	// APIActiveRequests is the current in-flight request count.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scubaduck_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// APIRateLimitHits counts rejections from the query and metadata rate limiters.
	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scubaduck_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
	)

	// SampleCacheHits/SampleCacheMisses track /api/samples cache efficiency.
	SampleCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scubaduck_sample_cache_hits_total",
			Help: "Total number of sample-value cache hits",
		},
	)

	SampleCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scubaduck_sample_cache_misses_total",
			Help: "Total number of sample-value cache misses",
		},
	)

	// SampleCacheSize is the current entry count in the sample-value cache.
	SampleCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scubaduck_sample_cache_entries",
			Help: "Current number of entries in the sample-value cache",
		},
	)
)

// RecordEngineQuery records a compiled query's duration and, on failure,
// increments the error counter labeled with kind.
func RecordEngineQuery(graphType string, duration time.Duration, errKind string) {
	EngineQueryDuration.WithLabelValues(graphType).Observe(duration.Seconds())
	if errKind != "" {
		EngineQueryErrors.WithLabelValues(errKind).Inc()
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSampleCacheLookup records a cache hit or miss.
func RecordSampleCacheLookup(hit bool) {
	if hit {
		SampleCacheHits.Inc()
	} else {
		SampleCacheMisses.Inc()
	}
}
