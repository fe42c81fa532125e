// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total recommendation computations by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "recommendation_duration_seconds",
			Help: "Time to build feature matrices, cluster and score one request",
			// Re-clustering dominates; small catalogs finish in milliseconds
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	RecommendationItemsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_items_returned",
			Help:    "Number of titles returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	RecommendationThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_throttled_total",
			Help: "Recommendation requests rejected by the per-user throttle",
		},
	)

	ClusteringEffectiveK = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clustering_effective_k",
			Help: "Effective cluster count of the most recent k-means fit",
		},
		[]string{"population"},
	)

	ClusteringIterations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clustering_iterations",
			Help:    "Lloyd iterations of the winning k-means restart",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100, 300},
		},
		[]string{"population"},
	)

	CatalogBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_breaker_state",
			Help: "Catalog snapshot circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	CatalogEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_entities",
			Help: "Row counts of catalog tables, refreshed periodically",
		},
		[]string{"entity"},
	)

	HistoryWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_history_writes_total",
			Help: "Served-recommendation journal writes by result",
		},
		[]string{"result"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages to bound label cardinality
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordThrottled records a per-user throttle rejection.
func RecordThrottled() {
	RecommendationThrottled.Inc()
	RecordRateLimitHit("recommendations")
}

// RecordHistoryWrite records a journal write outcome.
func RecordHistoryWrite(err error) {
	if err != nil {
		HistoryWrites.WithLabelValues("error").Inc()
		return
	}
	HistoryWrites.WithLabelValues("ok").Inc()
}

// SetCatalogSize records catalog row counts.
func SetCatalogSize(categories, titles, users, watchEvents, ratings int) {
	CatalogEntities.WithLabelValues("categories").Set(float64(categories))
	CatalogEntities.WithLabelValues("titles").Set(float64(titles))
	CatalogEntities.WithLabelValues("users").Set(float64(users))
	CatalogEntities.WithLabelValues("watch_events").Set(float64(watchEvents))
	CatalogEntities.WithLabelValues("ratings").Set(float64(ratings))
}

// breakerStateValues maps gobreaker state names to gauge values.
var breakerStateValues = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// SetBreakerState records the catalog breaker state by name.
// Unknown names are ignored.
func SetBreakerState(state string) {
	if v, ok := breakerStateValues[state]; ok {
		CatalogBreakerState.Set(v)
	}
}

// RecommendObserver feeds engine outcomes into the recommendation metrics.
// It satisfies recommend.Observer.
type RecommendObserver struct{}

// NewRecommendObserver creates an observer bound to the default registry.
func NewRecommendObserver() *RecommendObserver {
	return &RecommendObserver{}
}

// ObserveRecommendation records one engine request.
func (RecommendObserver) ObserveRecommendation(strategy, outcome string, latency time.Duration, returned int) {
	RecommendationRequests.WithLabelValues(strategy, outcome).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(latency.Seconds())
	RecommendationItemsReturned.Observe(float64(returned))
}

// ObserveClustering records one k-means fit.
func (RecommendObserver) ObserveClustering(population string, effectiveK, iterations int) {
	ClusteringEffectiveK.WithLabelValues(population).Set(float64(effectiveK))
	ClusteringIterations.WithLabelValues(population).Observe(float64(iterations))
}
