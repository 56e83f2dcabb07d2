// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "timeout too short",
			mutate:  func(c *Config) { c.Server.Timeout = 100 * time.Millisecond },
			wantErr: "HTTP_TIMEOUT",
		},
		{
			name:    "shutdown timeout too short",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "SHUTDOWN_TIMEOUT",
		},
		{
			name:    "dimension zero",
			mutate:  func(c *Config) { c.Engine.Dimension = 0 },
			wantErr: "ENGINE_DIMENSION",
		},
		{
			name:    "dimension too large",
			mutate:  func(c *Config) { c.Engine.Dimension = 5000 },
			wantErr: "ENGINE_DIMENSION",
		},
		{
			name:    "empty metric",
			mutate:  func(c *Config) { c.Engine.Metric = "" },
			wantErr: "ENGINE_METRIC",
		},
		{
			name:    "default k zero",
			mutate:  func(c *Config) { c.Engine.DefaultK = 0 },
			wantErr: "ENGINE_DEFAULT_K",
		},
		{
			name:    "max k below default k",
			mutate:  func(c *Config) { c.Engine.MaxK = 1 },
			wantErr: "ENGINE_MAX_K",
		},
		{
			name:    "cache ttl zero with cache enabled",
			mutate:  func(c *Config) { c.Engine.CacheTTL = 0 },
			wantErr: "ENGINE_CACHE_TTL",
		},
		{
			name: "cache ttl ignored when cache disabled",
			mutate: func(c *Config) {
				c.Engine.CacheEnabled = false
				c.Engine.CacheTTL = 0
			},
		},
		{
			name:    "negative max candidates",
			mutate:  func(c *Config) { c.Engine.MaxCandidates = -1 },
			wantErr: "ENGINE_MAX_CANDIDATES",
		},
		{
			name:    "rerank lambda out of range",
			mutate:  func(c *Config) { c.Engine.RerankLambda = 1.5 },
			wantErr: "ENGINE_RERANK_LAMBDA",
		},
		{
			name:    "events buffer size zero",
			mutate:  func(c *Config) { c.Events.BufferSize = 0 },
			wantErr: "EVENTS_BUFFER_SIZE",
		},
		{
			name:    "empty poison topic",
			mutate:  func(c *Config) { c.Events.PoisonTopic = "" },
			wantErr: "EVENTS_POISON_TOPIC",
		},
		{
			name: "nats url required when enabled",
			mutate: func(c *Config) {
				c.Events.NATS.Enabled = true
				c.Events.NATS.URL = ""
			},
			wantErr: "NATS_URL",
		},
		{
			name: "nats memory too small",
			mutate: func(c *Config) {
				c.Events.NATS.Enabled = true
				c.Events.NATS.MaxMemory = 1024
			},
			wantErr: "NATS_MAX_MEMORY",
		},
		{
			name: "nats limits ignored when disabled",
			mutate: func(c *Config) {
				c.Events.NATS.Enabled = false
				c.Events.NATS.MaxMemory = 0
			},
		},
		{
			name: "nats retention out of range",
			mutate: func(c *Config) {
				c.Events.NATS.Enabled = true
				c.Events.NATS.RetentionDays = 400
			},
			wantErr: "NATS_RETENTION_DAYS",
		},
		{
			name: "nats subscribers out of range",
			mutate: func(c *Config) {
				c.Events.NATS.Enabled = true
				c.Events.NATS.Subscribers = 64
			},
			wantErr: "NATS_SUBSCRIBERS",
		},
		{
			name:    "rate limit requests out of range",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 0 },
			wantErr: "RATE_LIMIT_REQUESTS",
		},
		{
			name:    "rate limit window too long",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name:    "ingest rate limit out of range",
			mutate:  func(c *Config) { c.Security.IngestRateReqs = 0 },
			wantErr: "INGEST_RATE_LIMIT_REQUESTS",
		},
		{
			name: "rate limits ignored when disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
				c.Security.IngestRateReqs = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	cfg := defaultConfig()
	if cfg.IsProduction() {
		t.Error("Default environment should not be production")
	}

	cfg.Server.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("Expected IsProduction() = true for ENVIRONMENT=production")
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		origins     []string
		want        bool
	}{
		{"wildcard in development", "development", []string{"*"}, false},
		{"wildcard in production", "production", []string{"*"}, true},
		{"specific origins in production", "production", []string{"https://app.example.com"}, false},
		{"wildcard among origins in production", "production", []string{"https://app.example.com", "*"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Server.Environment = tt.environment
			cfg.Security.CORSOrigins = tt.origins

			if got := cfg.ShouldWarnAboutCORS(); got != tt.want {
				t.Errorf("ShouldWarnAboutCORS() = %v, want %v", got, tt.want)
			}
		})
	}
}
