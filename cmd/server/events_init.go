// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/config"
	"github.com/tomtom215/affinitas/internal/events"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// catalogPipeline wraps the event pipeline with the transport resources
// it runs over. The pipeline itself never owns the NATS connection or
// embedded server; Stop closes them after the pipeline is down.
type catalogPipeline struct {
	*events.Pipeline
	closers []func() error
}

// Stop stops the pipeline, then releases transport resources in reverse
// acquisition order. The first error wins; later closers still run.
func (p *catalogPipeline) Stop() error {
	err := p.Pipeline.Stop()
	for i := len(p.closers) - 1; i >= 0; i-- {
		if cerr := p.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// closeAll releases partially acquired transport resources on an init
// failure, in reverse acquisition order.
func closeAll(closers []func() error, logger zerolog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn().Err(err).Msg("Failed to release event transport resource")
		}
	}
}

// buildEventsConfig maps the application config onto the pipeline config.
func buildEventsConfig(cfg *config.Config) events.Config {
	ec := events.DefaultConfig()
	ec.Bus.BufferSize = cfg.Events.BufferSize
	ec.Router.RetryMaxRetries = cfg.Events.RetryCount
	ec.Router.RetryInitialInterval = cfg.Events.RetryInterval
	ec.Router.RetryMaxInterval = cfg.Events.RetryInterval * 10
	ec.Router.PoisonQueueTopic = cfg.Events.PoisonTopic
	ec.Router.DeduplicationEnabled = cfg.Events.DedupEnabled
	ec.Router.DeduplicationTTL = cfg.Events.DedupWindow
	ec.Consumer.DedupWindow = cfg.Events.DedupWindow

	ec.NATS.Enabled = cfg.Events.NATS.Enabled
	ec.NATS.URL = cfg.Events.NATS.URL
	ec.NATS.EmbeddedServer = cfg.Events.NATS.EmbeddedServer
	ec.NATS.StoreDir = cfg.Events.NATS.StoreDir
	ec.NATS.MaxMemory = cfg.Events.NATS.MaxMemory
	ec.NATS.MaxStore = cfg.Events.NATS.MaxStore
	ec.NATS.RetentionDays = cfg.Events.NATS.RetentionDays
	ec.NATS.SubscribersCount = cfg.Events.NATS.Subscribers
	ec.NATS.DurableName = cfg.Events.NATS.DurableName
	ec.NATS.QueueGroup = cfg.Events.NATS.QueueGroup
	return ec
}

// initEventPipeline assembles the catalog event pipeline. With
// NATS_ENABLED=true and a -tags nats build it runs over JetStream;
// otherwise it runs over the in-process GoChannel bus.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEventPipeline(cfg *config.Config, store *vectorstore.Store, logger zerolog.Logger) (*catalogPipeline, error) {
	ec := buildEventsConfig(cfg)

	if ec.NATS.Enabled {
		pipeline, err := initNATSPipeline(&ec, store, logger)
		if err != nil {
			return nil, err
		}
		if pipeline != nil {
			return pipeline, nil
		}
		// Stub build: fall through to the in-process bus
	}

	pipeline, err := events.NewPipeline(ec, store, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("buffer_size", ec.Bus.BufferSize).Msg("Catalog event pipeline on in-process bus")
	return &catalogPipeline{Pipeline: pipeline}, nil
}
