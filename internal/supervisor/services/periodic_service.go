// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Task is one unit of periodic work.
type Task func(ctx context.Context) error

// PeriodicService runs a Task on a fixed interval under supervision.
// Task errors are logged and do not stop the service; a panic inside the
// task is left to suture, which restarts the service.
type PeriodicService struct {
	name         string
	interval     time.Duration
	task         Task
	runOnStartup bool
	logger       zerolog.Logger
}

// NewPeriodicService creates a periodic service. A non-positive interval
// means one hour.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPeriodicService(name string, interval time.Duration, runOnStartup bool, task Task, logger zerolog.Logger) *PeriodicService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PeriodicService{
		name:         name,
		interval:     interval,
		task:         task,
		runOnStartup: runOnStartup,
		logger:       logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.interval).Msg("periodic service starting")

	if s.runOnStartup {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(ctx context.Context) {
	start := time.Now()
	if err := s.task(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Msg("periodic task failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task completed")
}

// String identifies the service in supervisor logs.
func (s *PeriodicService) String() string {
	return s.name
}
