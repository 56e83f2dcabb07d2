// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/affinitas/config.yaml",
	"/etc/affinitas/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Engine: EngineConfig{
			Dimension:       5,
			Metric:          "cosine",
			DefaultK:        3,
			MaxK:            50,
			CacheEnabled:    true,
			CacheTTL:        5 * time.Minute,
			CacheMaxEntries: 1024,
			MaxCandidates:   0, // Unlimited: score the whole catalog
			MinParallel:     4096,
			Workers:         0, // 0 = runtime.GOMAXPROCS
			RerankEnabled:   false,
			RerankLambda:    0.7,
			Seed:            42,
		},
		Events: EventsConfig{
			BufferSize:    256,
			RetryCount:    5,
			RetryInterval: 100 * time.Millisecond,
			PoisonTopic:   "dlq.catalog",
			DedupEnabled:  false, // Consumer dedups on event IDs already
			DedupWindow:   5 * time.Minute,
			NATS: NATSConfig{
				Enabled:        false,
				URL:            "nats://127.0.0.1:4222",
				EmbeddedServer: true,
				StoreDir:       "/data/nats/jetstream",
				MaxMemory:      1 << 30,  // 1GB
				MaxStore:       10 << 30, // 10GB
				RetentionDays:  7,
				Subscribers:    4,
				DurableName:    "catalog-consumer",
				QueueGroup:     "recommenders",
			},
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			IngestRateReqs:    30,
			IngestRateWindow:  1 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Seed: SeedConfig{
			DemoData: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults from defaultConfig
//  2. Config file: optional YAML file, if one exists
//  3. Environment variables: override any setting
//
// Precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Transform env var names to koanf paths: HTTP_PORT -> server.port,
	// ENGINE_DIMENSION -> engine.dimension.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file. Returns the first file
// found, or an empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when supplied via env vars.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML), leave it alone.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so that unrelated environment noise never
// reaches the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":        "server.host",
		"http_port":        "server.port",
		"http_timeout":     "server.timeout",
		"shutdown_timeout": "server.shutdown_timeout",
		"environment":      "server.environment",

		// Engine mappings
		"engine_dimension":         "engine.dimension",
		"engine_metric":            "engine.metric",
		"engine_default_k":         "engine.default_k",
		"engine_max_k":             "engine.max_k",
		"engine_cache_enabled":     "engine.cache_enabled",
		"engine_cache_ttl":         "engine.cache_ttl",
		"engine_cache_max_entries": "engine.cache_max_entries",
		"engine_max_candidates":    "engine.max_candidates",
		"engine_min_parallel":      "engine.min_parallel",
		"engine_workers":           "engine.workers",
		"engine_rerank_enabled":    "engine.rerank_enabled",
		"engine_rerank_lambda":     "engine.rerank_lambda",
		"engine_seed":              "engine.seed",

		// Events mappings
		"events_buffer_size":    "events.buffer_size",
		"events_retry_count":    "events.retry_count",
		"events_retry_interval": "events.retry_interval",
		"events_poison_topic":   "events.poison_topic",
		"events_dedup_enabled":  "events.dedup_enabled",
		"events_dedup_window":   "events.dedup_window",

		// NATS mappings
		"nats_enabled":        "events.nats.enabled",
		"nats_url":            "events.nats.url",
		"nats_embedded":       "events.nats.embedded_server",
		"nats_store_dir":      "events.nats.store_dir",
		"nats_max_memory":     "events.nats.max_memory",
		"nats_max_store":      "events.nats.max_store",
		"nats_retention_days": "events.nats.retention_days",
		"nats_subscribers":    "events.nats.subscribers_count",
		"nats_durable_name":   "events.nats.durable_name",
		"nats_queue_group":    "events.nats.queue_group",

		// Security mappings
		"cors_origins":               "security.cors_origins",
		"rate_limit_requests":        "security.rate_limit_reqs",
		"rate_limit_window":          "security.rate_limit_window",
		"disable_rate_limit":         "security.rate_limit_disabled",
		"ingest_rate_limit_requests": "security.ingest_rate_limit_reqs",
		"ingest_rate_limit_window":   "security.ingest_rate_limit_window",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Seed mappings
		"seed_demo_data": "seed.demo_data",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped entirely.
	return ""
}
