// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// BreakerProvider guards a SnapshotProvider with a circuit breaker.
// After MaxFailures consecutive snapshot failures the breaker opens and
// requests fail fast with ErrCatalogUnavailable until Timeout elapses.
type BreakerProvider struct {
	next   SnapshotProvider
	cb     *gobreaker.CircuitBreaker[*Snapshot]
	logger zerolog.Logger
	onTrip func(state string)
}

// NewBreakerProvider wraps next with a circuit breaker configured by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerProvider(next SnapshotProvider, cfg BreakerConfig, logger zerolog.Logger) *BreakerProvider {
	p := &BreakerProvider{
		next:   next,
		logger: logger.With().Str("component", "catalog_breaker").Logger(),
	}

	maxFailures := cfg.MaxFailures
	p.cb = gobreaker.NewCircuitBreaker[*Snapshot](gobreaker.Settings{
		Name:        "catalog-snapshot",
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellations say nothing about catalog health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Catalog breaker state change")
			if p.onTrip != nil {
				p.onTrip(to.String())
			}
		},
	})

	return p
}

// OnStateChange registers fn to receive the new state name on every
// transition. Must be called before the provider is shared.
func (p *BreakerProvider) OnStateChange(fn func(state string)) {
	p.onTrip = fn
}

// Snapshot implements SnapshotProvider.
func (p *BreakerProvider) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := p.cb.Execute(func() (*Snapshot, error) {
		return p.next.Snapshot(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}
		return nil, err
	}
	return snap, nil
}

// State returns the current breaker state name.
func (p *BreakerProvider) State() string {
	return p.cb.State().String()
}
