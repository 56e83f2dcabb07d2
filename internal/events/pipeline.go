// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// Pipeline holds the assembled catalog event components wired together.
// This is the recommended way to initialize event processing.
type Pipeline struct {
	// Bus is the in-process transport. Nil when running over NATS.
	Bus       *Bus
	Publisher *Publisher
	Consumer  *Consumer
	Router    *Router
	Logger    watermill.LoggerAdapter
}

// NewPipeline assembles the default in-process pipeline: a GoChannel bus,
// a circuit-breaker-protected publisher, and the catalog consumer
// registered on the router.
//
// Usage:
//
//	pipeline, err := events.NewPipeline(cfg, store, logger)
//	if err != nil {
//	    return err
//	}
//	pipeline.Consumer.AddInvalidator(events.InvalidatorFunc(engine.InvalidateCache))
//	if err := pipeline.Start(ctx); err != nil {
//	    return err
//	}
//	defer pipeline.Stop()
func NewPipeline(cfg Config, store *vectorstore.Store, logger zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	wmLogger := NewBusLogger(logger.With().Str("component", "events.bus").Logger())
	bus := NewBus(cfg.Bus, wmLogger)

	p, err := AssemblePipeline(cfg, store, bus.Publisher(), bus.Subscriber(), wmLogger, logger)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	p.Bus = bus
	return p, nil
}

// AssemblePipeline wires a pipeline over an externally provided transport.
// The NATS build calls this with JetStream publisher and subscriber and the
// TopicWildcard subscription; the in-process path goes through NewPipeline.
func AssemblePipeline(
	cfg Config,
	store *vectorstore.Store,
	pub message.Publisher,
	sub message.Subscriber,
	wmLogger watermill.LoggerAdapter,
	logger zerolog.Logger,
	topics ...string,
) (*Pipeline, error) {
	if wmLogger == nil {
		wmLogger = watermill.NewStdLogger(false, false)
	}

	// The transport publisher doubles as the poison queue publisher so
	// failed messages stay on the same transport as live ones.
	router, err := NewRouter(&cfg.Router, pub, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	publisher, err := NewPublisher(pub, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	publisher.SetCircuitBreaker(NewCircuitBreaker(cfg.Breaker))

	consumer, err := NewConsumer(store, cfg.Consumer, logger)
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}
	consumer.RegisterHandlers(router, sub, topics...)

	return &Pipeline{
		Publisher: publisher,
		Consumer:  consumer,
		Router:    router,
		Logger:    wmLogger,
	}, nil
}

// Start begins processing events and blocks until the router is consuming.
func (p *Pipeline) Start(ctx context.Context) error {
	go func() {
		if err := p.Router.Run(ctx); err != nil {
			p.Logger.Error("Router error", err, nil)
		}
	}()

	<-p.Router.Running()

	p.Logger.Info("Catalog event pipeline started", watermill.LogFields{
		"handlers": p.Router.HandlerCount(),
	})
	return nil
}

// Stop gracefully stops all components.
func (p *Pipeline) Stop() error {
	var errs []error

	if p.Router != nil {
		if err := p.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close router: %w", err))
		}
	}
	if p.Publisher != nil {
		if err := p.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	// Closing the publisher closes a shared transport; the explicit bus
	// close covers pipelines that never published.
	if p.Bus != nil {
		if err := p.Bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bus: %w", err))
		}
	}

	p.Logger.Info("Catalog event pipeline stopped", nil)

	if len(errs) > 0 {
		return errs[0] // Return first error
	}
	return nil
}

// IsRunning returns whether the pipeline is actively processing.
func (p *Pipeline) IsRunning() bool {
	return p.Router != nil && p.Router.IsRunning()
}
