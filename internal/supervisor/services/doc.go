// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

/*
Package services provides suture.Service wrappers for Affinitas components.

This package adapts application components to the suture v4 supervision
model, translating their lifecycle patterns (Start/Stop, ListenAndServe,
ticker loops) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation (Start/Stop to Serve pattern)
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Event Pipeline (EventPipelineService):
  - Wraps events.Pipeline with Start/Stop lifecycle
  - Carries catalog mutation events to cache invalidators
  - Transport is in-process by default, NATS JetStream with build tag: nats

Cache Maintenance (CacheMaintenanceService):
  - Periodically prunes expired recommendation cache entries
  - Keeps the response cache size gauge current
  - Runs on a configurable sweep interval

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/tomtom215/affinitas/internal/supervisor"
	    "github.com/tomtom215/affinitas/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, pipeline *events.Pipeline, engine *recommend.Engine) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    // HTTP server with 10s shutdown timeout
	    httpSvc := services.NewHTTPServerService(server, 10*time.Second)
	    tree.AddAPIService(httpSvc)

	    // Catalog event pipeline
	    tree.AddEventsService(services.NewEventPipelineService(pipeline))

	    // Cache sweeper
	    cacheSvc := services.NewCacheMaintenanceService(engine, services.CacheMaintenanceConfig{
	        SweepInterval: 5 * time.Minute,
	    }, zlog)
	    tree.AddEventsService(cacheSvc)

	    // Start supervision
	    tree.Serve(ctx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Thread Safety

All service wrappers are safe for concurrent use, but a given wrapper
instance must only have one Serve call active at a time; suture guarantees
this for services added to a supervisor.

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - internal/events: Event pipeline implementation
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package services
