// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/reelmatch/internal/history"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

const defaultHistoryLimit = 10

// Recommendations handles GET /recommendations/{userID}?n=.
//
// Unknown users get 404 here even though the engine itself answers them with
// an empty list. n defaults to recommend.default_n and may not exceed
// recommend.max_n.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	n, err := queryInt(r, "n", h.config.Recommend.DefaultN, 0, h.config.Recommend.MaxN)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	known, err := h.db.UserExists(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to look up user", err)
		return
	}
	if !known {
		respondError(w, http.StatusNotFound, codeUserNotFound, "User not found", nil)
		return
	}

	if ok, wait := h.throttle.allow(userID); !ok {
		metrics.RecordThrottled()
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		respondError(w, http.StatusTooManyRequests, codeRateLimited, "Too many recommendation requests", nil)
		return
	}

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:    userID,
		N:         n,
		RequestID: logging.RequestIDFromContext(ctx),
	})
	if err != nil {
		if errors.Is(err, recommend.ErrCatalogUnavailable) {
			respondError(w, http.StatusServiceUnavailable, codeUnavailable, "Catalog temporarily unavailable", err)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to build recommendations", err)
		return
	}

	h.recordServed(r, userID, resp)
	respondSuccess(w, http.StatusOK, resp, start)
}

// recordServed journals a served list. Journal failures are logged and
// counted but never fail the request.
func (h *Handler) recordServed(r *http.Request, userID int, resp *recommend.Response) {
	if h.history == nil {
		return
	}
	err := h.history.Record(r.Context(), history.Entry{
		RequestID: resp.Metadata.RequestID,
		UserID:    userID,
		Strategy:  resp.Metadata.Strategy,
		TitleIDs:  resp.TitleIDs(),
		ServedAt:  resp.Metadata.GeneratedAt,
	})
	metrics.RecordHistoryWrite(err)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to journal served recommendations")
	}
}

// RecommendationHistory handles GET /recommendations/{userID}/history?limit=.
func (h *Handler) RecommendationHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "Recommendation history is disabled", nil)
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	maxLimit := h.config.History.MaxPerUser
	if maxLimit <= 0 {
		maxLimit = 50
	}
	limit, err := queryInt(r, "limit", min(defaultHistoryLimit, maxLimit), 1, maxLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	known, err := h.db.UserExists(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to look up user", err)
		return
	}
	if !known {
		respondError(w, http.StatusNotFound, codeUserNotFound, "User not found", nil)
		return
	}

	entries, err := h.history.Recent(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to read recommendation history", err)
		return
	}
	respondSuccess(w, http.StatusOK, entries, start)
}

// ClearRecommendationHistory handles DELETE /recommendations/{userID}/history.
func (h *Handler) ClearRecommendationHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "Recommendation history is disabled", nil)
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	known, err := h.db.UserExists(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to look up user", err)
		return
	}
	if !known {
		respondError(w, http.StatusNotFound, codeUserNotFound, "User not found", nil)
		return
	}

	deleted, err := h.history.DeleteUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to clear recommendation history", err)
		return
	}
	logging.Ctx(r.Context()).Info().Int("user_id", userID).Int("deleted", deleted).Msg("Cleared recommendation history")
	respondSuccess(w, http.StatusOK, map[string]int{"deleted": deleted}, start)
}
