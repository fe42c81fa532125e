// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	History   HistoryConfig   `koanf:"history"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`   // Number of DuckDB threads (0 = use NumCPU)
	SeedDemo  bool   `koanf:"seed_demo"` // Seed an empty catalog with demo data on startup
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	Clusters      int    `koanf:"clusters"`
	DefaultN      int    `koanf:"default_n"`
	MaxN          int    `koanf:"max_n"`
	MaxIterations int    `koanf:"max_iterations"`
	Restarts      int    `koanf:"restarts"`
	Seed          int64  `koanf:"seed"`
	Strategy      string `koanf:"strategy"`

	// Normalization anchors. These are fixed calibration constants.
	YearAnchor      float64 `koanf:"year_anchor"`
	DurationAnchor  float64 `koanf:"duration_anchor"`
	QualityScale    float64 `koanf:"quality_scale"`
	RatingScale     float64 `koanf:"rating_scale"`
	PopularityScale float64 `koanf:"popularity_scale"`

	AffinityMatch    float64 `koanf:"affinity_match"`
	AffinityMismatch float64 `koanf:"affinity_mismatch"`

	// Per-user throttle on recommendation computations.
	// ThrottlePerMinute <= 0 disables throttling.
	ThrottlePerMinute float64 `koanf:"throttle_per_minute"`
	ThrottleBurst     int     `koanf:"throttle_burst"`

	BreakerEnabled     bool          `koanf:"breaker_enabled"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// HistoryConfig holds settings for the served-recommendation journal.
type HistoryConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	Retention  time.Duration `koanf:"retention"`    // Entry TTL, 0 keeps entries forever
	MaxPerUser int           `koanf:"max_per_user"` // Upper bound on entries returned per user
}

// Load loads configuration from defaults, an optional config file and the
// environment. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
