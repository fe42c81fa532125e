// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        *config.Config
}

// NewRouter creates a router for handler using the security and server
// settings in cfg.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		config:        cfg,
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID)) // X-Request-ID header plus logging context
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	if router.config.Server.Timeout > 0 {
		r.Use(chimiddleware.Timeout(router.config.Server.Timeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Operational Endpoints
	// ========================
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Catalog & Recommendation API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("api"))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", router.handler.CreateUser)
			r.Get("/", router.handler.ListUsers)
			r.Get("/{userID}", router.handler.GetUser)
			r.Get("/{userID}/activity", router.handler.UserActivity)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", router.handler.CreateCategory)
			r.Get("/", router.handler.ListCategories)
		})

		r.Route("/titles", func(r chi.Router) {
			r.Post("/", router.handler.CreateTitle)
			r.Get("/", router.handler.ListTitles)
			r.Get("/{titleID}", router.handler.GetTitle)
		})

		r.Post("/watch-events", router.handler.CreateWatchEvent)
		r.Post("/ratings", router.handler.CreateRating)

		r.Route("/recommendations/{userID}", func(r chi.Router) {
			r.Get("/", router.handler.Recommendations)
			r.Get("/history", router.handler.RecommendationHistory)
			r.Delete("/history", router.handler.ClearRecommendationHistory)
		})
	})

	return r
}
