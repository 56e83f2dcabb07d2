// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

/*
Package config provides centralized configuration management for Affinitas.

Configuration is loaded in three layers with Koanf v2, later layers
overriding earlier ones:

 1. Struct defaults (defaultConfig)
 2. Optional YAML config file (searched via DefaultConfigPaths, or
    pointed at directly with CONFIG_PATH)
 3. Environment variables (explicit name mapping, see envTransformFunc)

# Configuration Structure

Configuration is organized into logical groups:

  - ServerConfig: HTTP bind address, port, timeouts, environment mode
  - EngineConfig: vector dimension, metric, K limits, response cache,
    candidate and parallelism caps
  - EventsConfig: catalog event pipeline tuning and the optional NATS
    JetStream transport
  - SecurityConfig: CORS origins and rate limits (no authentication)
  - LoggingConfig: zerolog level, format, caller
  - SeedConfig: demo data seeding

# Environment Variables

Every setting can be supplied via environment variables. The full list
with defaults lives on the section struct doc comments in config.go.
Commonly used:

  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT, ENVIRONMENT
  - ENGINE_DIMENSION, ENGINE_METRIC, ENGINE_DEFAULT_K, ENGINE_MAX_K
  - ENGINE_CACHE_ENABLED, ENGINE_CACHE_TTL, ENGINE_CACHE_MAX_ENTRIES
  - EVENTS_BUFFER_SIZE, EVENTS_RETRY_COUNT, EVENTS_POISON_TOPIC
  - NATS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_STORE_DIR
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW
  - INGEST_RATE_LIMIT_REQUESTS, INGEST_RATE_LIMIT_WINDOW
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - SEED_DEMO_DATA

Comma-separated values are accepted for slice settings such as
CORS_ORIGINS.

# Validation

LoadWithKoanf validates the merged configuration before returning it.
Validation errors name the offending environment variable, for example
"ENGINE_MAX_K must be between ENGINE_DEFAULT_K and 10000".

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("invalid configuration")
	}
	fmt.Println(cfg.Server.Port)
*/
package config
