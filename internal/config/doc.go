// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config provides centralized configuration management for Reelmatch.

# Configuration Sources

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, config.yaml, config.yml,
    /etc/reelmatch/config.yaml or /etc/reelmatch/config.yml
 3. Environment variables, through an explicit name mapping

Before layer 3 an optional .env file (DOTENV_PATH, default ./.env) is merged
into the process environment; variables already set are left alone.
Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT: bind address (default 0.0.0.0:8080)
  - HTTP_TIMEOUT: per-request handler timeout (default 30s)
  - SHUTDOWN_TIMEOUT: graceful shutdown budget (default 10s)

Database:
  - DUCKDB_PATH: database file, or :memory: (default /data/reelmatch.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default 1GB)
  - DUCKDB_THREADS: worker threads, 0 = NumCPU
  - SEED_DEMO_DATA: seed an empty catalog with demo titles

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Security:
  - CORS_ORIGINS: comma-separated origins (default *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Recommendations:
  - RECOMMEND_CLUSTERS: k for both k-means models (default 5)
  - RECOMMEND_DEFAULT_N, RECOMMEND_MAX_N
  - RECOMMEND_MAX_ITERATIONS, RECOMMEND_RESTARTS, RECOMMEND_SEED
  - RECOMMEND_STRATEGY: cluster or profile
  - RECOMMEND_YEAR_ANCHOR, RECOMMEND_DURATION_ANCHOR, RECOMMEND_POPULARITY_SCALE
  - RECOMMEND_THROTTLE_PER_MINUTE, RECOMMEND_THROTTLE_BURST
  - RECOMMEND_BREAKER_ENABLED, RECOMMEND_BREAKER_MAX_FAILURES, RECOMMEND_BREAKER_TIMEOUT

History:
  - HISTORY_ENABLED, HISTORY_PATH, HISTORY_IN_MEMORY, HISTORY_RETENTION, HISTORY_MAX_PER_USER
*/
package config
