// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package main is the entry point for the Affinitas server application.
//
// Affinitas serves similarity-ranked recommendations from an in-memory
// vector catalog. The server initializes components in the following
// order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Logging: zerolog with JSON or console output
//  3. Vector Store: in-memory item and user vectors, optional demo seed
//  4. Engine: similarity metric, top-K ranker, optional MMR reranker
//  5. Event Pipeline: catalog events over the in-process bus or NATS JetStream
//  6. HTTP Server: REST API behind the Chi router
//
// Everything with a lifecycle runs under a Suture v4 supervisor tree
// and restarts on failure.
//
// # Build Tags
//
// Optional build tags enable additional functionality:
//
//	go build -tags "nats" ./cmd/server  # Enable NATS JetStream transport
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (SHUTDOWN_TIMEOUT budget)
//   - Closes the event router, publisher, and transport
//
// # Example Usage
//
// Development with the demo dataset:
//
//	export SEED_DEMO_DATA=true
//	export LOG_FORMAT=console
//	./affinitas
//
// Production:
//
//	export ENVIRONMENT=production
//	export CORS_ORIGINS=https://app.example.com
//	export ENGINE_DIMENSION=128
//	./affinitas
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/affinitas/internal/api"
	"github.com/tomtom215/affinitas/internal/config"
	"github.com/tomtom215/affinitas/internal/events"
	"github.com/tomtom215/affinitas/internal/logging"
	"github.com/tomtom215/affinitas/internal/metrics"
	"github.com/tomtom215/affinitas/internal/middleware"
	"github.com/tomtom215/affinitas/internal/supervisor"
	"github.com/tomtom215/affinitas/internal/supervisor/services"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Affinitas with supervisor tree")
	logging.Info().
		Int("dimension", cfg.Engine.Dimension).
		Str("metric", cfg.Engine.Metric).
		Str("environment", cfg.Server.Environment).
		Bool("nats_enabled", cfg.Events.NATS.Enabled).
		Msg("Configuration loaded")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used for CI test runs!")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production (CORS_ORIGINS=*)")
		logging.Warn().Msg("Set explicit origins if this API is reachable from browsers")
	}

	// Initialize the vector store; the dimension is fixed for the
	// process lifetime
	store, err := vectorstore.New(cfg.Engine.Dimension, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create vector store")
	}

	// Seed demo data if enabled (for demos and CI smoke tests)
	if cfg.Seed.DemoData {
		if err := store.SeedDemoData(); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		metrics.UpdateStoreSizes(store.ItemCount(), store.UserCount())
		logging.Info().
			Int("items", store.ItemCount()).
			Int("users", store.UserCount()).
			Msg("Demo data seeded (SEED_DEMO_DATA=true)")
	}

	engine, err := initEngine(cfg, store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the catalog event pipeline (in-process bus, or NATS
	// JetStream when built with -tags nats and NATS_ENABLED=true)
	pipeline, err := initEventPipeline(cfg, store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event pipeline")
	}

	handler := api.NewHandler(engine, store)
	handler.SetPublisher(pipeline.Publisher)

	// Catalog events consumed from the bus invalidate the same caches
	// as direct API writes
	pipeline.Consumer.AddInvalidator(events.InvalidatorFunc(engine.InvalidateCache))
	pipeline.Consumer.AddInvalidator(events.InvalidatorFunc(handler.InvalidateReadCache))

	chiMW := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)

	// Catalog writes carry a token-bucket limiter on top of the per-IP
	// limit
	var ingestLimiter *middleware.RateLimiter
	if !cfg.Security.RateLimitDisabled {
		ingestLimiter = middleware.NewRateLimiter(cfg.Security.IngestRateReqs, cfg.Security.IngestRateWindow)
	}

	router := api.NewRouter(handler, chiMW, ingestLimiter)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(slogLogger, treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Events layer services
	tree.AddEventsService(services.NewEventPipelineService(pipeline))
	tree.AddEventsService(services.NewCacheMaintenanceService(engine, services.CacheMaintenanceConfig{
		SweepInterval: cfg.Engine.CacheTTL,
	}, logging.Logger()))
	logging.Info().Msg("Event pipeline and cache maintenance added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
