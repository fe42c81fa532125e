// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"time"
)

// Strategy names accepted by Config.Strategy.
const (
	StrategyCluster = "cluster"
	StrategyProfile = "profile"
)

// DefaultSeed is used when Config.Seed is zero.
const DefaultSeed int64 = 42

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Clustering contains k-means parameters shared by both cluster models.
	Clustering ClusteringConfig `json:"clustering"`

	// Anchors are the fixed scales used by feature building and scoring.
	Anchors AnchorConfig `json:"anchors"`

	// Affinity contains the cluster affinity values.
	Affinity AffinityConfig `json:"affinity"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Breaker configures the circuit breaker around catalog snapshots.
	Breaker BreakerConfig `json:"breaker"`

	// Strategy selects the affinity strategy: "cluster" or "profile".
	Strategy string `json:"strategy"`

	// Seed is the random seed for k-means initialization.
	// If zero, DefaultSeed is used.
	Seed int64 `json:"seed"`
}

// ClusteringConfig contains k-means parameters.
type ClusteringConfig struct {
	// K is the configured cluster count. The effective count is clamped to
	// the number of distinct points.
	K int `json:"k"`

	// MaxIterations caps assign/update rounds per restart.
	MaxIterations int `json:"max_iterations"`

	// Restarts is the number of seeded initializations; the lowest inertia wins.
	Restarts int `json:"restarts"`
}

// AnchorConfig holds fixed normalization anchors.
//
// These are calibration constants, not data-derived bounds. A release year
// above Year yields a feature above 1.0, which is accepted.
type AnchorConfig struct {
	Year       float64 `json:"year"`
	Duration   float64 `json:"duration"`
	Quality    float64 `json:"quality"`
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
}

// AffinityConfig holds the cluster affinity scores.
type AffinityConfig struct {
	// Match is used when the title shares the user's cluster.
	Match float64 `json:"match"`

	// Mismatch is used otherwise, and for every title when no title model exists.
	Mismatch float64 `json:"mismatch"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultN is used when a request does not specify N.
	DefaultN int `json:"default_n"`

	// MaxN is the upper bound on N accepted by the API layer.
	MaxN int `json:"max_n"`
}

// BreakerConfig configures the snapshot circuit breaker.
type BreakerConfig struct {
	// Enabled wraps the snapshot provider in a circuit breaker.
	Enabled bool `json:"enabled"`

	// MaxFailures is the consecutive failure count that opens the breaker.
	MaxFailures uint32 `json:"max_failures"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `json:"timeout"`

	// Interval clears failure counts while closed. Zero never clears.
	Interval time.Duration `json:"interval"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Clustering: ClusteringConfig{
			K:             5,
			MaxIterations: 300,
			Restarts:      10,
		},
		Anchors: AnchorConfig{
			Year:       2023,
			Duration:   180,
			Quality:    10,
			Rating:     5,
			Popularity: 100,
		},
		Affinity: AffinityConfig{
			Match:    1.0,
			Mismatch: 0.5,
		},
		Limits: LimitsConfig{
			DefaultN: 5,
			MaxN:     100,
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			Interval:    time.Minute,
		},
		Strategy: StrategyCluster,
		Seed:     DefaultSeed,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Clustering.K < 1 {
		return fmt.Errorf("clustering.k must be positive, got %d", c.Clustering.K)
	}
	if c.Clustering.MaxIterations < 1 {
		return fmt.Errorf("clustering.max_iterations must be positive, got %d", c.Clustering.MaxIterations)
	}
	if c.Clustering.Restarts < 1 {
		return fmt.Errorf("clustering.restarts must be positive, got %d", c.Clustering.Restarts)
	}

	anchors := []struct {
		name  string
		value float64
	}{
		{"anchors.year", c.Anchors.Year},
		{"anchors.duration", c.Anchors.Duration},
		{"anchors.quality", c.Anchors.Quality},
		{"anchors.rating", c.Anchors.Rating},
		{"anchors.popularity", c.Anchors.Popularity},
	}
	for _, a := range anchors {
		if a.value <= 0 {
			return fmt.Errorf("%s must be positive, got %f", a.name, a.value)
		}
	}

	if c.Affinity.Match < 0 || c.Affinity.Mismatch < 0 {
		return fmt.Errorf("affinity scores must be non-negative, got match=%f mismatch=%f",
			c.Affinity.Match, c.Affinity.Mismatch)
	}

	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n (%d) must be >= limits.default_n (%d)", c.Limits.MaxN, c.Limits.DefaultN)
	}

	if c.Breaker.Enabled {
		if c.Breaker.MaxFailures < 1 {
			return fmt.Errorf("breaker.max_failures must be positive, got %d", c.Breaker.MaxFailures)
		}
		if c.Breaker.Timeout <= 0 {
			return fmt.Errorf("breaker.timeout must be positive, got %v", c.Breaker.Timeout)
		}
	}

	switch c.Strategy {
	case StrategyCluster, StrategyProfile:
	default:
		return fmt.Errorf("strategy must be %q or %q, got %q", StrategyCluster, StrategyProfile, c.Strategy)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs are value types
	clone := *c
	return &clone
}

// effectiveSeed returns the configured seed, or DefaultSeed when unset.
func (c *Config) effectiveSeed() int64 {
	if c.Seed == 0 {
		return DefaultSeed
	}
	return c.Seed
}
