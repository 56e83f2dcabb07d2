// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"fmt"
	"time"
)

// Config holds configuration for the catalog event pipeline.
// The application config layer populates this from files and environment;
// defaults here are safe for a single-instance deployment.
type Config struct {
	// Enabled controls whether catalog events are published at all.
	// When false the API mutates the store without emitting events and
	// derived caches are only invalidated by their TTLs.
	Enabled bool

	Bus      BusConfig
	Router   RouterConfig
	Consumer ConsumerConfig
	Breaker  CircuitBreakerConfig
	NATS     NATSConfig
}

// DefaultConfig returns production defaults for the event pipeline.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Bus:      DefaultBusConfig(),
		Router:   DefaultRouterConfig(),
		Consumer: DefaultConsumerConfig(),
		Breaker:  DefaultCircuitBreakerConfig("catalog-publisher"),
		NATS:     DefaultNATSConfig(),
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Bus.BufferSize < 0 {
		return fmt.Errorf("%w: bus buffer size must not be negative", ErrInvalidConfig)
	}
	if c.Router.CloseTimeout <= 0 {
		return fmt.Errorf("%w: router close timeout must be positive", ErrInvalidConfig)
	}
	if c.Router.RetryMaxRetries < 0 {
		return fmt.Errorf("%w: retry count must not be negative", ErrInvalidConfig)
	}
	if c.Router.DeduplicationEnabled && c.Router.DeduplicationTTL <= 0 {
		return fmt.Errorf("%w: deduplication TTL must be positive when enabled", ErrInvalidConfig)
	}
	if c.Consumer.MaxDedupEntries < 0 {
		return fmt.Errorf("%w: consumer dedup entries must not be negative", ErrInvalidConfig)
	}
	if c.NATS.Enabled && !c.NATS.EmbeddedServer && c.NATS.URL == "" {
		return fmt.Errorf("%w: NATS URL required when embedded server is disabled", ErrInvalidConfig)
	}
	return nil
}

// BusConfig holds in-process GoChannel bus configuration.
type BusConfig struct {
	// BufferSize is the per-subscriber output channel buffer.
	// Publishing blocks once a subscriber falls this far behind.
	BufferSize int

	// Persistent re-delivers all previously published messages to late
	// subscribers. The catalog pipeline registers consumers before any
	// publish, so this stays off.
	Persistent bool
}

// DefaultBusConfig returns production defaults for the in-process bus.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		BufferSize: 256,
		Persistent: false,
	}
}

// ConsumerConfig holds catalog consumer configuration.
type ConsumerConfig struct {
	// DedupWindow is how long processed event IDs are remembered.
	// Redeliveries inside the window are acknowledged without processing.
	DedupWindow time.Duration

	// MaxDedupEntries caps the dedup cache size.
	MaxDedupEntries int

	// ApplyMutations replays upsert/delete payloads into the local store.
	// Leave false when the API layer already writes to the same store (the
	// in-process default); enable when consuming another instance's events
	// over NATS so the local store converges on the publisher's catalog.
	ApplyMutations bool
}

// DefaultConsumerConfig returns production defaults for the consumer.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		DedupWindow:     5 * time.Minute,
		MaxDedupEntries: 10000,
		ApplyMutations:  false,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}

// NATSConfig holds NATS JetStream configuration for the optional external
// transport. Only consulted when built with -tags nats.
type NATSConfig struct {
	// Enabled switches the pipeline from the in-process bus to NATS.
	Enabled bool

	// URL is the NATS server connection URL.
	// Ignored when EmbeddedServer is true.
	URL string

	// EmbeddedServer runs a NATS server inside this process.
	// If false, expects an external NATS server at URL.
	EmbeddedServer bool

	// StoreDir is the JetStream storage directory.
	StoreDir string

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64

	// RetentionDays is how long to keep catalog events.
	RetentionDays int

	// SubscribersCount is the number of concurrent message processors.
	//
	// When above 1, events may be processed out of order. Catalog upserts
	// are idempotent, but a delete racing its own earlier upsert can
	// resurrect an entry on a replica. Keep at 1 unless event volume
	// demands more and replicas tolerate eventual consistency.
	SubscribersCount int

	// DurableName is the consumer durable name for message tracking.
	DurableName string

	// QueueGroup is the queue group for load balancing.
	QueueGroup string
}

// DefaultNATSConfig returns production defaults for NATS configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		Enabled:          false,
		URL:              "nats://127.0.0.1:4222",
		EmbeddedServer:   true,
		StoreDir:         "/data/nats/jetstream",
		MaxMemory:        1 << 30,  // 1GB
		MaxStore:         10 << 30, // 10GB
		RetentionDays:    7,
		SubscribersCount: 1,
		DurableName:      "catalog-consumer",
		QueueGroup:       "recommenders",
	}
}

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   1 << 30,  // 1GB
		JetStreamMaxStore: 10 << 30, // 10GB
	}
}

// PublisherConfig holds NATS publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds NATS subscriber configuration.
type SubscriberConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
	// StreamName is the JetStream stream to bind to. When set, auto
	// provisioning is disabled and the subscriber binds to the existing
	// stream. Required when subscribing to wildcard topics such as
	// "catalog.>" because stream names cannot contain wildcards.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for the subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		DurableName:      "catalog-consumer",
		QueueGroup:       "recommenders",
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,    // Max redelivery attempts
		MaxAckPending:    1000, // Flow control
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		StreamName:       "CATALOG_EVENTS",
	}
}

// StreamConfig defines catalog event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns production stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            "CATALOG_EVENTS",
		Subjects:        []string{TopicWildcard},
		MaxAge:          7 * 24 * time.Hour, // 7 days
		MaxBytes:        1 << 30,            // 1GB
		MaxMsgs:         -1,                 // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1, // Increase for clustering
	}
}
