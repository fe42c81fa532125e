// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request outcomes reported to an Observer.
const (
	OutcomeOK           = "ok"
	OutcomeUnknownUser  = "unknown_user"
	OutcomeEmptyCatalog = "empty_catalog"
	OutcomeError        = "error"
)

// Observer receives per-request outcomes, typically for metrics.
type Observer interface {
	ObserveRecommendation(strategy, outcome string, latency time.Duration, returned int)
	ObserveClustering(population string, effectiveK, iterations int)
}

// Engine produces recommendations from a fresh catalog snapshot per call.
//
// The engine keeps no model between calls and is safe for concurrent use.
type Engine struct {
	config   *Config
	provider SnapshotProvider
	strategy Strategy
	scorer   *Scorer
	observer Observer
	logger   zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, provider SnapshotProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, errors.New("snapshot provider is required")
	}

	strategy, err := NewStrategy(cfg.Strategy, cfg.Affinity)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:   cfg.Clone(),
		provider: provider,
		strategy: strategy,
		scorer:   NewScorer(strategy, cfg.Anchors),
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetObserver registers an observer for request outcomes.
// Must be called before the engine serves requests.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// StrategyName returns the active affinity strategy.
func (e *Engine) StrategyName() string {
	return e.strategy.Name()
}

// BuildRecommendations returns up to n unwatched title IDs for userID.
//
// Unknown users and empty catalogs yield an empty list and no error. An error
// is returned only when the catalog snapshot cannot be read.
func (e *Engine) BuildRecommendations(ctx context.Context, userID, n int) ([]int, error) {
	resp, err := e.Recommend(ctx, Request{UserID: userID, N: n})
	if err != nil {
		return nil, err
	}
	return resp.TitleIDs(), nil
}

// Recommend runs the full pipeline and returns scored titles with metadata.
//
// Request.N is used as given; callers wanting the configured default must
// apply Limits.DefaultN themselves.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	log := e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Logger()

	resp := &Response{
		Items: []ScoredTitle{},
		Metadata: Metadata{
			RequestID:   req.RequestID,
			Strategy:    e.strategy.Name(),
			UserCluster: -1,
			Seed:        e.config.effectiveSeed(),
		},
	}

	snap, err := e.provider.Snapshot(ctx)
	if err != nil {
		e.observe(OutcomeError, time.Since(start), 0)
		log.Error().Err(err).Msg("Failed to read catalog snapshot")
		if errors.Is(err, ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	model := e.BuildModel(snap)
	e.fillModelMetadata(&resp.Metadata, model)

	outcome := OutcomeOK
	switch {
	case len(snap.Titles) == 0:
		outcome = OutcomeEmptyCatalog
	case model.UserRow(req.UserID) < 0:
		outcome = OutcomeUnknownUser
	default:
		resp.Metadata.UserKnown = true
		resp.Metadata.UserCluster = model.Users.Label(model.UserRow(req.UserID))
		resp.Items, resp.Metadata.CandidateCount = e.scorer.Score(model, req.UserID, req.N)
	}

	resp.Metadata.GeneratedAt = time.Now()
	resp.Metadata.Latency = time.Since(start)
	e.observe(outcome, resp.Metadata.Latency, len(resp.Items))

	log.Debug().
		Str("outcome", outcome).
		Int("n", req.N).
		Int("returned", len(resp.Items)).
		Int("candidates", resp.Metadata.CandidateCount).
		Int("user_cluster", resp.Metadata.UserCluster).
		Dur("latency", resp.Metadata.Latency).
		Msg("Recommendations generated")

	return resp, nil
}

// BuildModel runs feature building, normalization and clustering over snap.
// Empty populations yield empty cluster models.
func (e *Engine) BuildModel(snap *Snapshot) *Model {
	features := NewFeatureBuilder(snap.Categories, e.config.Anchors)
	model := &Model{
		Snapshot:     snap,
		Features:     features,
		TitleVectors: features.TitleMatrix(snap.Titles),
		UserVectors:  features.UserMatrix(snap.Users, snap.Titles),
		userIndex:    make(map[int]int, len(snap.Users)),
	}
	for i := range snap.Users {
		model.userIndex[snap.Users[i].User.ID] = i
	}

	model.Titles = e.cluster("titles", model.TitleVectors)
	model.Users = e.cluster("users", model.UserVectors)
	return model
}

// cluster normalizes rows with a dedicated scaler and fits k-means.
func (e *Engine) cluster(population string, rows [][]float64) *ClusterModel {
	if len(rows) == 0 {
		return &ClusterModel{}
	}

	var scaler StandardScaler
	normalized, err := scaler.FitTransform(rows)
	if err != nil {
		// Rows come from one FeatureBuilder and always share a width
		e.logger.Error().Err(err).Str("population", population).Msg("Normalization failed")
		return &ClusterModel{}
	}

	model := NewKMeans(e.config.Clustering, e.config.effectiveSeed()).Fit(normalized)
	if e.observer != nil {
		e.observer.ObserveClustering(population, model.EffectiveK, model.Iterations)
	}
	return model
}

func (e *Engine) fillModelMetadata(md *Metadata, m *Model) {
	md.TitleClusters = m.Titles.EffectiveK
	md.UserClusters = m.Users.EffectiveK
	md.TitleIterations = m.Titles.Iterations
	md.UserIterations = m.Users.Iterations
}

func (e *Engine) observe(outcome string, latency time.Duration, returned int) {
	if e.observer != nil {
		e.observer.ObserveRecommendation(e.strategy.Name(), outcome, latency, returned)
	}
}
