// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

/*
Package main is the entry point for the Affinitas server application.

Affinitas is a self-hosted similarity-ranking recommendation service. It
holds a catalog of item vectors and user preference vectors in memory,
scores candidates with a pluggable similarity metric, and serves ranked
top-K recommendations over a REST API.

# Application Architecture

The server implements a layered architecture with Suture v4 process
supervision:

	RootSupervisor ("affinitas")
	├── EventsSupervisor ("events-layer")
	│   ├── Event Pipeline (catalog events, in-process or NATS)
	│   └── Cache Maintenance (response cache sweeper)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Vector Store: in-memory catalog and user vectors, optional demo seed
 4. Engine: similarity metric, top-K ranker, optional MMR reranker
 5. Event Pipeline: Watermill over GoChannel or NATS JetStream
 6. API Handler: catalog CRUD and recommendation endpoints
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

The vector store and engine are plain data structures and are not
supervised; they fail only on programmer error. Everything with a
lifecycle runs under the tree and is restarted on failure.

# Configuration

Configuration is loaded via Koanf v2 in layers, highest priority last:

 1. Built-in defaults
 2. Config file (config.yaml, optional)
 3. Environment variables

The main groups are HTTP_* and SHUTDOWN_TIMEOUT for the server,
ENGINE_* for the recommendation engine, EVENTS_* and NATS_* for the
event pipeline, CORS_ORIGINS and RATE_LIMIT_* / INGEST_RATE_LIMIT_* for
security, LOG_* for logging, and SEED_DEMO_DATA for the bundled demo
catalog. See internal/config for the full list with defaults.

# Build Tags

The NATS JetStream transport is optional and compiled behind a tag:

	go build ./cmd/server              # In-process event bus only
	go build -tags nats ./cmd/server   # NATS JetStream transport

Without the tag, setting NATS_ENABLED=true logs a warning and the
pipeline falls back to the in-process bus.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

  - Stops accepting new connections
  - Waits for in-flight requests to complete (SHUTDOWN_TIMEOUT budget)
  - Closes the event router, publisher, and transport
  - Reports services that failed to stop in time

# Usage Examples

Development with the demo dataset:

	export SEED_DEMO_DATA=true
	export LOG_FORMAT=console
	./affinitas

Production behind a reverse proxy:

	export ENVIRONMENT=production
	export CORS_ORIGINS=https://app.example.com
	export ENGINE_DIMENSION=128
	export ENGINE_METRIC=cosine
	./affinitas

With NATS JetStream (built with -tags nats):

	export NATS_ENABLED=true
	export NATS_EMBEDDED=true
	export NATS_STORE_DIR=/data/nats/jetstream
	./affinitas

Docker:

	docker run -d \
	  -e SEED_DEMO_DATA=true \
	  -p 8080:8080 \
	  ghcr.io/tomtom215/affinitas

# See Also

  - internal/config: configuration loading and validation
  - internal/recommend: engine, metrics, ranking, reranking
  - internal/vectorstore: in-memory vector storage
  - internal/events: catalog event pipeline
  - internal/supervisor: supervision tree and service wrappers
  - internal/api: HTTP handlers and routing
*/
package main
