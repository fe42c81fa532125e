// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"strings"
	"testing"
	"time"
)

// assertError checks that error occurred and contains the expected text
func assertError(t *testing.T, err error, expectedMsg, testName string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error containing %q, got nil", testName, expectedMsg)
	}
	if expectedMsg != "" && !strings.Contains(err.Error(), expectedMsg) {
		t.Errorf("%s: error = %v, want error containing %q", testName, err, expectedMsg)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "HTTP_TIMEOUT"},
		{"empty database path", func(c *Config) { c.Database.Path = "  " }, "DUCKDB_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DUCKDB_THREADS"},
		{"no cors origins", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"rate limit too high", func(c *Config) { c.Security.RateLimitReqs = 200000 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit window too short", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"zero clusters", func(c *Config) { c.Recommend.Clusters = 0 }, "RECOMMEND_CLUSTERS"},
		{"default n above max", func(c *Config) { c.Recommend.DefaultN = 200 }, "RECOMMEND_MAX_N"},
		{"zero iterations", func(c *Config) { c.Recommend.MaxIterations = 0 }, "RECOMMEND_MAX_ITERATIONS"},
		{"zero restarts", func(c *Config) { c.Recommend.Restarts = 0 }, "RECOMMEND_RESTARTS"},
		{"unknown strategy", func(c *Config) { c.Recommend.Strategy = "popular" }, "RECOMMEND_STRATEGY"},
		{"negative rating scale", func(c *Config) { c.Recommend.RatingScale = -5 }, "rating_scale"},
		{"throttle without burst", func(c *Config) { c.Recommend.ThrottleBurst = 0 }, "RECOMMEND_THROTTLE_BURST"},
		{"throttle disabled ignores burst", func(c *Config) {
			c.Recommend.ThrottlePerMinute = 0
			c.Recommend.ThrottleBurst = 0
		}, ""},
		{"breaker without failures", func(c *Config) { c.Recommend.BreakerMaxFailures = 0 }, "RECOMMEND_BREAKER_MAX_FAILURES"},
		{"breaker disabled ignores timeout", func(c *Config) {
			c.Recommend.BreakerEnabled = false
			c.Recommend.BreakerTimeout = 0
		}, ""},
		{"history without path", func(c *Config) { c.History.Path = "" }, "HISTORY_PATH"},
		{"in-memory history needs no path", func(c *Config) {
			c.History.Path = ""
			c.History.InMemory = true
		}, ""},
		{"history disabled", func(c *Config) {
			c.History.Enabled = false
			c.History.MaxPerUser = 0
		}, ""},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			assertError(t, err, tt.wantErr, tt.name)
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		cfg := defaultConfig()
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("level %q: unexpected error %v", level, err)
		}
	}
}

func TestHasWildcardCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if !cfg.HasWildcardCORS() {
		t.Error("default CORS should be wildcard")
	}
	cfg.Security.CORSOrigins = []string{"https://ui.example"}
	if cfg.HasWildcardCORS() {
		t.Error("explicit origin list should not be wildcard")
	}
}
