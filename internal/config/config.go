// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration, loaded in layers:
// struct defaults, then an optional YAML config file, then environment
// variables. Environment variables always win.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Engine   EngineConfig   `koanf:"engine"`
	Events   EventsConfig   `koanf:"events"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Seed     SeedConfig     `koanf:"seed"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_TIMEOUT: Per-request timeout (default: 30s)
//   - SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 15s)
//   - ENVIRONMENT: "development" or "production" (default: development)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// EngineConfig holds recommendation engine settings.
//
// Environment Variables:
//   - ENGINE_DIMENSION: Vector dimensionality D, fixed at startup (default: 5)
//   - ENGINE_METRIC: Similarity metric name (default: cosine)
//   - ENGINE_DEFAULT_K: Recommendations returned when K is unspecified (default: 3)
//   - ENGINE_MAX_K: Upper bound on K, larger requests are clamped (default: 50)
//   - ENGINE_CACHE_ENABLED: Response cache toggle (default: true)
//   - ENGINE_CACHE_TTL: Response cache entry lifetime (default: 5m)
//   - ENGINE_CACHE_MAX_ENTRIES: Response cache capacity (default: 1024)
//   - ENGINE_MAX_CANDIDATES: Cap on candidates scanned per request, 0 = unlimited (default: 0)
//   - ENGINE_MIN_PARALLEL: Candidate count at which scoring fans out (default: 4096)
//   - ENGINE_WORKERS: Scoring goroutines for large candidate sets, 0 = auto (default: 0)
//   - ENGINE_RERANK_ENABLED: Diversity reranking toggle (default: false)
//   - ENGINE_RERANK_LAMBDA: Relevance-diversity tradeoff in [0,1] (default: 0.7)
//   - ENGINE_SEED: Request-ID random seed (default: 42)
type EngineConfig struct {
	Dimension       int           `koanf:"dimension"`
	Metric          string        `koanf:"metric"`
	DefaultK        int           `koanf:"default_k"`
	MaxK            int           `koanf:"max_k"`
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
	MaxCandidates   int           `koanf:"max_candidates"`
	MinParallel     int           `koanf:"min_parallel"`
	Workers         int           `koanf:"workers"`
	RerankEnabled   bool          `koanf:"rerank_enabled"`
	RerankLambda    float64       `koanf:"rerank_lambda"`
	Seed            int64         `koanf:"seed"`
}

// EventsConfig holds catalog event pipeline settings. The in-process bus
// is always on; NATS JetStream is an opt-in transport compiled behind the
// nats build tag.
//
// Environment Variables:
//   - EVENTS_BUFFER_SIZE: In-process bus buffer per subscriber (default: 256)
//   - EVENTS_RETRY_COUNT: Max redeliveries for transient handler errors (default: 5)
//   - EVENTS_RETRY_INTERVAL: Initial retry backoff (default: 100ms)
//   - EVENTS_POISON_TOPIC: Dead letter topic for permanent failures (default: dlq.catalog)
//   - EVENTS_DEDUP_ENABLED: Router-level deduplication toggle (default: false)
//   - EVENTS_DEDUP_WINDOW: Deduplication memory window (default: 5m)
type EventsConfig struct {
	BufferSize    int           `koanf:"buffer_size"`
	RetryCount    int           `koanf:"retry_count"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	PoisonTopic   string        `koanf:"poison_topic"`
	DedupEnabled  bool          `koanf:"dedup_enabled"`
	DedupWindow   time.Duration `koanf:"dedup_window"`

	NATS NATSConfig `koanf:"nats"`
}

// NATSConfig holds the optional NATS JetStream transport settings.
//
// Environment Variables:
//   - NATS_ENABLED: Use NATS JetStream instead of the in-process bus (default: false)
//   - NATS_URL: Server URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: Run an embedded JetStream server (default: true)
//   - NATS_STORE_DIR: JetStream storage directory (default: /data/nats/jetstream)
//   - NATS_MAX_MEMORY: JetStream memory limit in bytes (default: 1GB)
//   - NATS_MAX_STORE: JetStream disk limit in bytes (default: 10GB)
//   - NATS_RETENTION_DAYS: Stream retention in days (default: 7)
//   - NATS_SUBSCRIBERS: Consumer subscription count (default: 4)
//   - NATS_DURABLE_NAME: Durable consumer name (default: catalog-consumer)
//   - NATS_QUEUE_GROUP: Queue group for load balancing (default: recommenders)
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`
	RetentionDays  int    `koanf:"retention_days"`
	Subscribers    int    `koanf:"subscribers_count"`
	DurableName    string `koanf:"durable_name"`
	QueueGroup     string `koanf:"queue_group"`
}

// SecurityConfig holds CORS and rate limiting settings. There is no
// authentication layer; the service is meant to sit behind one.
//
// Environment Variables:
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS: Per-IP requests per window (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Disable all rate limiting, CI only (default: false)
//   - INGEST_RATE_LIMIT_REQUESTS: Per-IP catalog writes per window (default: 30)
//   - INGEST_RATE_LIMIT_WINDOW: Catalog write window (default: 1m)
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	IngestRateReqs    int           `koanf:"ingest_rate_limit_reqs"`
	IngestRateWindow  time.Duration `koanf:"ingest_rate_limit_window"`
}

// LoggingConfig holds zerolog settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SeedConfig controls demo data seeding.
//
// Environment Variables:
//   - SEED_DEMO_DATA: Load the built-in demo catalog and users at startup (default: false)
type SeedConfig struct {
	DemoData bool `koanf:"demo_data"`
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("HTTP_TIMEOUT must be at least 1s")
	}
	if c.Server.ShutdownTimeout < time.Second {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be at least 1s")
	}
	return nil
}

// Engine limit constants
const (
	maxDimension = 4096
	maxMaxK      = 10000
)

func (c *Config) validateEngine() error {
	if c.Engine.Dimension < 1 || c.Engine.Dimension > maxDimension {
		return fmt.Errorf("ENGINE_DIMENSION must be between 1 and %d", maxDimension)
	}
	if c.Engine.Metric == "" {
		return fmt.Errorf("ENGINE_METRIC must not be empty")
	}
	if c.Engine.DefaultK < 1 {
		return fmt.Errorf("ENGINE_DEFAULT_K must be at least 1")
	}
	if c.Engine.MaxK < c.Engine.DefaultK || c.Engine.MaxK > maxMaxK {
		return fmt.Errorf("ENGINE_MAX_K must be between ENGINE_DEFAULT_K and %d", maxMaxK)
	}
	if c.Engine.CacheEnabled {
		if c.Engine.CacheTTL <= 0 {
			return fmt.Errorf("ENGINE_CACHE_TTL must be positive")
		}
		if c.Engine.CacheMaxEntries < 1 {
			return fmt.Errorf("ENGINE_CACHE_MAX_ENTRIES must be at least 1")
		}
	}
	if c.Engine.MaxCandidates < 0 {
		return fmt.Errorf("ENGINE_MAX_CANDIDATES must be non-negative")
	}
	if c.Engine.RerankLambda < 0 || c.Engine.RerankLambda > 1 {
		return fmt.Errorf("ENGINE_RERANK_LAMBDA must be between 0 and 1")
	}
	return nil
}

// NATS limit constants
const (
	natsMinMemory    = 64 * 1024 * 1024  // 64MB
	natsMinStore     = 100 * 1024 * 1024 // 100MB
	natsMinRetention = 1
	natsMaxRetention = 365
	natsMaxSubs      = 32
)

func (c *Config) validateEvents() error {
	if c.Events.BufferSize < 1 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be at least 1")
	}
	if c.Events.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must be non-negative")
	}
	if c.Events.PoisonTopic == "" {
		return fmt.Errorf("EVENTS_POISON_TOPIC must not be empty")
	}

	if !c.Events.NATS.Enabled {
		return nil
	}
	if c.Events.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	if c.Events.NATS.MaxMemory < natsMinMemory {
		return fmt.Errorf("NATS_MAX_MEMORY must be at least 64MB (67108864 bytes)")
	}
	if c.Events.NATS.MaxStore < natsMinStore {
		return fmt.Errorf("NATS_MAX_STORE must be at least 100MB (104857600 bytes)")
	}
	if c.Events.NATS.RetentionDays < natsMinRetention || c.Events.NATS.RetentionDays > natsMaxRetention {
		return fmt.Errorf("NATS_RETENTION_DAYS must be between 1 and 365")
	}
	if c.Events.NATS.Subscribers < 1 || c.Events.NATS.Subscribers > natsMaxSubs {
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and 32")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	if c.Security.IngestRateReqs < minRateLimitRequests || c.Security.IngestRateReqs > maxRateLimitRequests {
		return fmt.Errorf("INGEST_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.IngestRateWindow < minRateLimitWindow || c.Security.IngestRateWindow > maxRateLimitWindow {
		return fmt.Errorf("INGEST_RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// hasWildcardCORS reports whether any origin is the wildcard.
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether startup should log a CORS warning.
// Wildcard origins are allowed (there are no credentials to steal) but
// worth flagging in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}
