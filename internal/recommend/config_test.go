// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	if cfg.Clustering.K != 5 {
		t.Errorf("Clustering.K = %d, want 5", cfg.Clustering.K)
	}
	if cfg.Limits.DefaultN != 5 {
		t.Errorf("Limits.DefaultN = %d, want 5", cfg.Limits.DefaultN)
	}
	if cfg.Anchors.Year != 2023 || cfg.Anchors.Duration != 180 {
		t.Errorf("anchors = %+v, want year 2023 duration 180", cfg.Anchors)
	}
	if cfg.Anchors.Popularity != 100 {
		t.Errorf("Anchors.Popularity = %f, want 100", cfg.Anchors.Popularity)
	}
	if cfg.Affinity.Match != 1.0 || cfg.Affinity.Mismatch != 0.5 {
		t.Errorf("affinity = %+v, want 1.0/0.5", cfg.Affinity)
	}
	if cfg.Strategy != StrategyCluster {
		t.Errorf("Strategy = %q, want %q", cfg.Strategy, StrategyCluster)
	}
	if cfg.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", cfg.Seed, DefaultSeed)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "default", modify: func(c *Config) {}, wantErr: false},
		{name: "zero k", modify: func(c *Config) { c.Clustering.K = 0 }, wantErr: true},
		{name: "zero iterations", modify: func(c *Config) { c.Clustering.MaxIterations = 0 }, wantErr: true},
		{name: "zero restarts", modify: func(c *Config) { c.Clustering.Restarts = 0 }, wantErr: true},
		{name: "zero year anchor", modify: func(c *Config) { c.Anchors.Year = 0 }, wantErr: true},
		{name: "negative duration anchor", modify: func(c *Config) { c.Anchors.Duration = -1 }, wantErr: true},
		{name: "zero popularity anchor", modify: func(c *Config) { c.Anchors.Popularity = 0 }, wantErr: true},
		{name: "negative mismatch", modify: func(c *Config) { c.Affinity.Mismatch = -0.1 }, wantErr: true},
		{name: "zero default n", modify: func(c *Config) { c.Limits.DefaultN = 0 }, wantErr: true},
		{name: "max n below default", modify: func(c *Config) { c.Limits.MaxN = 2 }, wantErr: true},
		{name: "unknown strategy", modify: func(c *Config) { c.Strategy = "svd" }, wantErr: true},
		{name: "profile strategy", modify: func(c *Config) { c.Strategy = StrategyProfile }, wantErr: false},
		{name: "breaker zero failures", modify: func(c *Config) { c.Breaker.MaxFailures = 0 }, wantErr: true},
		{name: "breaker zero timeout", modify: func(c *Config) { c.Breaker.Timeout = 0 }, wantErr: true},
		{
			name: "disabled breaker skips checks",
			modify: func(c *Config) {
				c.Breaker.Enabled = false
				c.Breaker.MaxFailures = 0
				c.Breaker.Timeout = 0
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	original := DefaultConfig()
	original.Seed = 7
	original.Breaker.Timeout = time.Second

	clone := original.Clone()
	clone.Clustering.K = 9
	clone.Anchors.Year = 2000

	if original.Clustering.K != 5 {
		t.Error("modifying clone changed original Clustering.K")
	}
	if original.Anchors.Year != 2023 {
		t.Error("modifying clone changed original Anchors.Year")
	}
	if clone.Seed != 7 || clone.Breaker.Timeout != time.Second {
		t.Errorf("clone lost fields: seed=%d timeout=%v", clone.Seed, clone.Breaker.Timeout)
	}
}

func TestConfig_EffectiveSeed(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Seed = 0
	if got := cfg.effectiveSeed(); got != DefaultSeed {
		t.Errorf("effectiveSeed() = %d, want %d", got, DefaultSeed)
	}
	cfg.Seed = 99
	if got := cfg.effectiveSeed(); got != 99 {
		t.Errorf("effectiveSeed() = %d, want 99", got)
	}
}
