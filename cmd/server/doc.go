// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package main is the entry point for the Reelmatch server application.

Reelmatch serves a title catalog over HTTP and recommends unwatched titles by
clustering titles and users with k-means on every request.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("reelmatch")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── history-gc      (Badger value log GC, when history is enabled)
	│   ├── catalog-stats   (catalog size gauges)
	│   └── throttle-prune  (idle per-user limiters)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB catalog store, optionally seeded with demo data
 4. Recommendation engine: snapshot provider behind a circuit breaker
 5. History: BadgerDB journal of served recommendations (optional)
 6. Supervisor Tree and HTTP server

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	DUCKDB_PATH=/data/reelmatch.duckdb
	SEED_DEMO_DATA=false
	RECOMMEND_CLUSTERS=5
	RECOMMEND_STRATEGY=cluster   # cluster or profile
	HISTORY_ENABLED=true

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within SHUTDOWN_TIMEOUT before the stores are closed.
*/
package main
