// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/history"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
)

const (
	historyGCInterval     = 10 * time.Minute
	historyGCDiscardRatio = 0.5
	catalogStatsInterval  = time.Minute
	throttlePruneInterval = 5 * time.Minute
	throttleIdle          = 30 * time.Minute
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("strategy", cfg.Recommend.Strategy).
		Bool("history_enabled", cfg.History.Enabled).
		Msg("Starting Reelmatch with supervisor tree")

	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*)")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemo {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Failed to seed demo data")
		}
	}

	engine, err := initRecommend(cfg, db, logging.WithComponent("recommend"))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize recommendation engine")
		return
	}

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(history.Options{
			Path:       cfg.History.Path,
			InMemory:   cfg.History.InMemory,
			Retention:  cfg.History.Retention,
			MaxPerUser: cfg.History.MaxPerUser,
		}, logging.WithComponent("history"))
		if err != nil {
			logging.Error().Err(err).Msg("Failed to open recommendation history, continuing without it")
			hist = nil
		} else {
			defer func() {
				if err := hist.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing history store")
				}
			}()
		}
	}

	tree, err := supervisor.NewSupervisorTree(logging.SlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	handler := api.NewHandler(db, engine, hist, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	maintenanceLog := logging.WithComponent("maintenance")
	if hist != nil {
		tree.AddMaintenanceService(services.NewPeriodicService("history-gc", historyGCInterval, false,
			func(context.Context) error { return hist.CollectGarbage(historyGCDiscardRatio) },
			maintenanceLog))
	}
	tree.AddMaintenanceService(services.NewPeriodicService("catalog-stats", catalogStatsInterval, true,
		func(ctx context.Context) error {
			stats, err := db.Stats(ctx)
			if err != nil {
				return err
			}
			metrics.SetCatalogSize(stats.Categories, stats.Titles, stats.Users, stats.WatchEvents, stats.Ratings)
			return nil
		},
		maintenanceLog))
	tree.AddMaintenanceService(services.NewPeriodicService("throttle-prune", throttlePruneInterval, false,
		func(context.Context) error {
			if n := handler.PruneThrottle(throttleIdle); n > 0 {
				maintenanceLog.Debug().Int("removed", n).Msg("Pruned idle recommendation throttles")
			}
			return nil
		},
		maintenanceLog))

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// ServeBackground delivers exactly one result when the tree stops
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
