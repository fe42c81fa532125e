// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package metrics provides Prometheus metrics for Reelmatch.

Metrics are registered on the default registry via promauto and exposed at
/metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Database:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}

Recommendations:
  - recommendation_requests_total{strategy,outcome}
  - recommendation_duration_seconds{strategy}
  - recommendation_items_returned
  - recommendation_throttled_total
  - clustering_effective_k{population}
  - clustering_iterations{population}
  - catalog_breaker_state (0 closed, 1 half-open, 2 open)
  - recommendation_history_writes_total{result}
  - catalog_entities{entity}

Every recommendation request re-clusters the catalog, so
recommendation_duration_seconds is the number to watch as the catalog grows.
*/
package metrics
