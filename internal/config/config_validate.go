// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateHistory(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateSecurity validates CORS and rate limiting configuration
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must contain at least one origin")
	}
	return c.validateRateLimits()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validStrategies defines the allowed recommendation strategies
var validStrategies = map[string]bool{
	"cluster": true,
	"profile": true,
}

// validateRecommend validates recommendation engine configuration
func (c *Config) validateRecommend() error {
	r := c.Recommend

	if r.Clusters < 1 {
		return fmt.Errorf("RECOMMEND_CLUSTERS must be at least 1")
	}
	if r.DefaultN < 0 {
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be non-negative")
	}
	if r.MaxN < 1 || r.DefaultN > r.MaxN {
		return fmt.Errorf("RECOMMEND_MAX_N must be at least 1 and not below RECOMMEND_DEFAULT_N")
	}
	if r.MaxIterations < 1 {
		return fmt.Errorf("RECOMMEND_MAX_ITERATIONS must be at least 1")
	}
	if r.Restarts < 1 {
		return fmt.Errorf("RECOMMEND_RESTARTS must be at least 1")
	}
	if !validStrategies[r.Strategy] {
		return fmt.Errorf("RECOMMEND_STRATEGY must be one of: cluster, profile")
	}
	if err := c.validateAnchors(); err != nil {
		return err
	}
	if r.ThrottlePerMinute > 0 && r.ThrottleBurst < 1 {
		return fmt.Errorf("RECOMMEND_THROTTLE_BURST must be at least 1 when throttling is enabled")
	}
	if r.BreakerEnabled {
		if r.BreakerMaxFailures < 1 {
			return fmt.Errorf("RECOMMEND_BREAKER_MAX_FAILURES must be at least 1")
		}
		if r.BreakerTimeout <= 0 {
			return fmt.Errorf("RECOMMEND_BREAKER_TIMEOUT must be positive")
		}
	}
	return nil
}

// validateAnchors rejects zero or negative normalization anchors, which
// would divide by zero when building feature vectors.
func (c *Config) validateAnchors() error {
	anchors := []struct {
		name  string
		value float64
	}{
		{"year_anchor", c.Recommend.YearAnchor},
		{"duration_anchor", c.Recommend.DurationAnchor},
		{"quality_scale", c.Recommend.QualityScale},
		{"rating_scale", c.Recommend.RatingScale},
		{"popularity_scale", c.Recommend.PopularityScale},
	}
	for _, a := range anchors {
		if a.value <= 0 {
			return fmt.Errorf("recommend.%s must be positive", a.name)
		}
	}
	return nil
}

func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}
	if !c.History.InMemory && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("HISTORY_PATH is required unless HISTORY_IN_MEMORY is set")
	}
	if c.History.Retention < 0 {
		return fmt.Errorf("HISTORY_RETENTION must be non-negative")
	}
	if c.History.MaxPerUser < 1 {
		return fmt.Errorf("HISTORY_MAX_PER_USER must be at least 1")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// HasWildcardCORS reports whether CORS allows any origin.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
