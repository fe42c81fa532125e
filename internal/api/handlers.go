// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"time"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/history"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response envelope and request parsing
//   - handlers_health.go: health endpoint
//   - handlers_catalog.go: users, categories, titles, watch events, ratings
//   - handlers_recommend.go: recommendations and served history
type Handler struct {
	db        *database.DB
	engine    *recommend.Engine
	history   *history.Store // optional, nil disables the journal
	config    *config.Config
	throttle  *userThrottle
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// hist may be nil when the served-recommendation journal is disabled; the
// history endpoint then answers 503.
//
// Example:
//
//	handler := api.NewHandler(db, engine, hist, cfg)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(db *database.DB, engine *recommend.Engine, hist *history.Store, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		engine:    engine,
		history:   hist,
		config:    cfg,
		throttle:  newUserThrottle(cfg.Recommend.ThrottlePerMinute, cfg.Recommend.ThrottleBurst),
		startTime: time.Now(),
	}
}

// PruneThrottle drops per-user limiters idle for longer than idle and
// returns how many were removed.
func (h *Handler) PruneThrottle(idle time.Duration) int {
	return h.throttle.prune(idle)
}
