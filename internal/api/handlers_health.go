// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	HistoryEnabled    bool    `json:"history_enabled"`
	Strategy          string  `json:"strategy"`
	Uptime            float64 `json:"uptime"`
}

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Health handles health check requests. A lost database connection reports
// "degraded" with 503 so load balancers stop routing to the instance.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	health := HealthStatus{
		Status:            "healthy",
		Version:           Version,
		DatabaseConnected: dbConnected,
		HistoryEnabled:    h.history != nil,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.engine != nil {
		health.Strategy = h.engine.StrategyName()
	}

	status := http.StatusOK
	if !dbConnected {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	respondSuccess(w, status, health, start)
}
