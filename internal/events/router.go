// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/message/router/plugin"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Throttle configuration (messages per second, 0 = disabled)
	ThrottlePerSecond int64

	// PoisonQueue configuration
	PoisonQueueTopic string

	// Deduplication configuration
	DeduplicationEnabled bool
	DeduplicationTTL     time.Duration
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      5,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0, // Disabled by default
		PoisonQueueTopic:     "dlq.catalog",
		DeduplicationEnabled: false, // DISABLED: keys on msg.UUID, which transports may regenerate; the consumer dedups on stable event IDs instead
		DeduplicationTTL:     5 * time.Minute,
	}
}

// Router wraps the Watermill Router with pre-configured middleware.
// It provides automatic Ack/Nack handling, retry logic, panic recovery, and
// poison queue routing for failed messages.
type Router struct {
	router    *message.Router
	config    RouterConfig
	logger    watermill.LoggerAdapter
	poisonPub message.Publisher
	running   atomic.Bool
	handlers  map[string]*message.Handler
	dedupRepo *InMemoryDeduplicator

	received  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// RouterMetrics is a snapshot of router delivery counters.
// MessagesProcessed counts acknowledged messages, including those diverted
// to the poison queue; MessagesFailed counts messages nacked back to the
// transport after the retry budget was exhausted.
type RouterMetrics struct {
	MessagesReceived  int64
	MessagesProcessed int64
	MessagesFailed    int64
}

// NewRouter creates a new Watermill Router with pre-configured middleware.
// The router handles:
//   - Automatic Ack/Nack based on handler success/failure
//   - Panic recovery with stack trace logging
//   - Exponential backoff retry for transient failures
//   - Poison queue routing for permanent failures
//   - Optional rate limiting (throttling)
//   - Optional simple deduplication (for exact message matches)
func NewRouter(
	cfg *RouterConfig,
	poisonPublisher message.Publisher,
	logger watermill.LoggerAdapter,
) (*Router, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	routerCfg := message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}

	wmRouter, err := message.NewRouter(routerCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r := &Router{
		router:    wmRouter,
		config:    *cfg,
		logger:    logger,
		poisonPub: poisonPublisher,
		handlers:  make(map[string]*message.Handler),
	}

	// Signal handler plugin closes the router on SIGTERM so in-flight
	// messages drain even before the supervision tree reacts.
	wmRouter.AddPlugin(plugin.SignalsHandler)

	// Middleware in order (outer to inner):
	// 1. Counting - delivery counters for health reporting
	// 2. Recoverer - catch panics and convert to errors
	// 3. Deduplicator - simple dedup (if enabled); sits outside Retry so a
	//    retry of the same delivery is not mistaken for a duplicate
	// 4. Retry - handle transient failures with backoff
	// 5. Throttle - rate limiting (if enabled)
	// 6. Poison Queue - route permanent failures to DLQ

	wmRouter.AddMiddleware(r.countingMiddleware)

	wmRouter.AddMiddleware(middleware.Recoverer)

	if cfg.DeduplicationEnabled {
		r.dedupRepo = NewInMemoryDeduplicator(cfg.DeduplicationTTL)
		dedup := middleware.Deduplicator{
			KeyFactory: func(msg *message.Message) (string, error) {
				return msg.UUID, nil
			},
			Repository: r.dedupRepo,
		}
		wmRouter.AddMiddleware(dedup.Middleware)
	}

	retryMiddleware := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retryMiddleware.Middleware)

	if cfg.ThrottlePerSecond > 0 {
		throttle := middleware.NewThrottle(cfg.ThrottlePerSecond, time.Second)
		wmRouter.AddMiddleware(throttle.Middleware)
	}

	// Permanent failures skip the retry budget entirely; transient errors
	// propagate up to Retry and, if still failing, nack for redelivery.
	if poisonPublisher != nil && cfg.PoisonQueueTopic != "" {
		poisonQueue, err := middleware.PoisonQueueWithFilter(poisonPublisher, cfg.PoisonQueueTopic, IsPermanent)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poisonQueue)
	}

	return r, nil
}

// countingMiddleware tracks delivery outcomes for Metrics.
func (r *Router) countingMiddleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		r.received.Add(1)
		out, err := h(msg)
		if err != nil {
			r.failed.Add(1)
			return out, err
		}
		r.processed.Add(1)
		return out, nil
	}
}

// AddHandler registers a handler for processing messages from a topic.
// The handler function should process the message and return any output
// messages. Errors trigger retry logic; permanent failures go to the
// poison queue.
//
// Parameters:
//   - name: Unique handler name for logging
//   - subscribeTopic: Subject to subscribe to (NATS supports wildcards like "catalog.>")
//   - subscriber: Watermill Subscriber for the input topic
//   - publishTopic: Subject to publish output messages (empty string if no output)
//   - publisher: Watermill Publisher for output (nil if no output)
//   - handler: Function that processes messages
func (r *Router) AddHandler(
	name string,
	subscribeTopic string,
	subscriber message.Subscriber,
	publishTopic string,
	publisher message.Publisher,
	handler message.HandlerFunc,
) *message.Handler {
	h := r.router.AddHandler(
		name,
		subscribeTopic,
		subscriber,
		publishTopic,
		publisher,
		handler,
	)
	r.handlers[name] = h
	return h
}

// AddConsumerHandler registers a handler that doesn't produce output messages.
// This is a convenience wrapper for consumers that only read and process
// messages. Note: This replaces the deprecated AddNoPublisherHandler.
func (r *Router) AddConsumerHandler(
	name string,
	subscribeTopic string,
	subscriber message.Subscriber,
	handler message.NoPublishHandlerFunc,
) *message.Handler {
	h := r.router.AddConsumerHandler(
		name,
		subscribeTopic,
		subscriber,
		handler,
	)
	r.handlers[name] = h
	return h
}

// AddHandlerMiddleware adds middleware to a specific handler.
// Handler-level middleware runs after router-level middleware.
func (r *Router) AddHandlerMiddleware(handlerName string, m ...message.HandlerMiddleware) error {
	h, exists := r.handlers[handlerName]
	if !exists {
		return fmt.Errorf("handler %q not found", handlerName)
	}
	h.AddMiddleware(m...)
	return nil
}

// HandlerCount returns the number of registered handlers.
func (r *Router) HandlerCount() int {
	return len(r.handlers)
}

// Run starts the router and blocks until context cancellation or Close().
// All registered handlers begin processing messages.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// RunAsync starts the router in a goroutine and returns immediately.
// Returns a channel that will be closed when the router is running.
func (r *Router) RunAsync(ctx context.Context) <-chan struct{} {
	running := make(chan struct{})

	go func() {
		go func() {
			r.running.Store(true)
			defer r.running.Store(false)
			if err := r.router.Run(ctx); err != nil {
				r.logger.Error("Router error", err, nil)
			}
		}()

		// Wait for router to be running, then signal
		<-r.router.Running()
		close(running)
	}()

	return running
}

// Running returns a channel that closes when the router is running.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close gracefully stops the router.
// Waits for in-flight messages to complete up to CloseTimeout.
func (r *Router) Close() error {
	return r.router.Close()
}

// IsRunning returns whether the router is currently processing messages.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Metrics returns a snapshot of delivery counters.
func (r *Router) Metrics() RouterMetrics {
	return RouterMetrics{
		MessagesReceived:  r.received.Load(),
		MessagesProcessed: r.processed.Load(),
		MessagesFailed:    r.failed.Load(),
	}
}
