// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// buildEngineConfig maps the flat recommend config section onto the
// engine's grouped configuration.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	engineCfg := recommend.DefaultConfig()

	engineCfg.Clustering.K = rc.Clusters
	engineCfg.Clustering.MaxIterations = rc.MaxIterations
	engineCfg.Clustering.Restarts = rc.Restarts

	engineCfg.Anchors = recommend.AnchorConfig{
		Year:       rc.YearAnchor,
		Duration:   rc.DurationAnchor,
		Quality:    rc.QualityScale,
		Rating:     rc.RatingScale,
		Popularity: rc.PopularityScale,
	}
	engineCfg.Affinity = recommend.AffinityConfig{
		Match:    rc.AffinityMatch,
		Mismatch: rc.AffinityMismatch,
	}
	engineCfg.Limits = recommend.LimitsConfig{
		DefaultN: rc.DefaultN,
		MaxN:     rc.MaxN,
	}

	engineCfg.Breaker.Enabled = rc.BreakerEnabled
	engineCfg.Breaker.MaxFailures = rc.BreakerMaxFailures
	engineCfg.Breaker.Timeout = rc.BreakerTimeout

	engineCfg.Strategy = rc.Strategy
	engineCfg.Seed = rc.Seed
	return engineCfg
}

// initRecommend creates the recommendation engine over provider. When the
// breaker is enabled the provider is wrapped and its state exported as a
// gauge.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, provider recommend.SnapshotProvider, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := buildEngineConfig(cfg)

	if engineCfg.Breaker.Enabled {
		breaker := recommend.NewBreakerProvider(provider, engineCfg.Breaker, logger)
		breaker.OnStateChange(metrics.SetBreakerState)
		metrics.SetBreakerState("closed")
		provider = breaker
	}

	engine, err := recommend.NewEngine(engineCfg, provider, logger)
	if err != nil {
		return nil, err
	}
	engine.SetObserver(metrics.NewRecommendObserver())

	logger.Info().
		Str("strategy", engine.StrategyName()).
		Int("clusters", engineCfg.Clustering.K).
		Int("restarts", engineCfg.Clustering.Restarts).
		Int64("seed", engineCfg.Seed).
		Bool("breaker", engineCfg.Breaker.Enabled).
		Msg("Recommendation engine initialized")

	return engine, nil
}
