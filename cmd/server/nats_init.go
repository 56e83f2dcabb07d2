// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

//go:build nats

package main

import (
	"context"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/events"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// initNATSPipeline assembles the catalog pipeline over NATS JetStream:
// optional embedded server, connection, stream provisioning, then the
// Watermill publisher and subscriber.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initNATSPipeline(ec *events.Config, store *vectorstore.Store, logger zerolog.Logger) (*catalogPipeline, error) {
	logger.Info().Msg("Initializing NATS JetStream event transport...")

	var closers []func() error
	natsURL := ec.NATS.URL

	// Step 1: Embedded NATS server if enabled
	if ec.NATS.EmbeddedServer {
		serverCfg := events.DefaultServerConfig()
		serverCfg.StoreDir = ec.NATS.StoreDir
		serverCfg.JetStreamMaxMem = ec.NATS.MaxMemory
		serverCfg.JetStreamMaxStore = ec.NATS.MaxStore

		srv, err := events.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		closers = append(closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		})
		natsURL = srv.ClientURL()
		logger.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	} else {
		logger.Info().Str("url", natsURL).Msg("Using external NATS server")
	}

	// Step 2: Connect to NATS
	nc, err := natsgo.Connect(natsURL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		closeAll(closers, logger)
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	closers = append(closers, func() error {
		nc.Close()
		return nil
	})

	// Step 3: Ensure the catalog stream exists
	js, err := jetstream.New(nc)
	if err != nil {
		closeAll(closers, logger)
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := events.DefaultStreamConfig()
	streamCfg.MaxAge = time.Duration(ec.NATS.RetentionDays) * 24 * time.Hour

	streamInit, err := events.NewStreamInitializer(js, &streamCfg)
	if err != nil {
		closeAll(closers, logger)
		return nil, fmt.Errorf("create stream initializer: %w", err)
	}
	stream, err := streamInit.EnsureStream(context.Background())
	if err != nil {
		closeAll(closers, logger)
		return nil, fmt.Errorf("ensure stream exists: %w", err)
	}
	streamInfo := stream.CachedInfo()
	logger.Info().
		Str("name", streamInfo.Config.Name).
		Strs("subjects", streamInfo.Config.Subjects).
		Dur("max_age", streamInfo.Config.MaxAge).
		Msg("JetStream stream ready")

	// Step 4: Publisher and subscriber over the shared stream
	wmLogger := events.NewBusLogger(logger.With().Str("component", "events.nats").Logger())

	pub, err := events.NewNATSPublisher(events.DefaultPublisherConfig(natsURL), wmLogger)
	if err != nil {
		closeAll(closers, logger)
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	subCfg := events.DefaultSubscriberConfig(natsURL)
	subCfg.StreamName = streamCfg.Name
	subCfg.DurableName = ec.NATS.DurableName
	subCfg.QueueGroup = ec.NATS.QueueGroup
	subCfg.SubscribersCount = ec.NATS.SubscribersCount

	sub, err := events.NewNATSSubscriber(&subCfg, wmLogger)
	if err != nil {
		closeAll(closers, logger)
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	// Step 5: Assemble the pipeline on the wildcard subscription.
	// Mutations are replayed into the local store so replicas converge
	// on the publisher's catalog; upserts and deletes are idempotent,
	// and the consumer dedups redeliveries by event ID.
	ec.Consumer.ApplyMutations = true

	pipeline, err := events.AssemblePipeline(*ec, store, pub, sub, wmLogger, logger, events.TopicWildcard)
	if err != nil {
		closeAll(closers, logger)
		return nil, fmt.Errorf("assemble pipeline: %w", err)
	}

	logger.Info().
		Str("durable", subCfg.DurableName).
		Str("queue_group", subCfg.QueueGroup).
		Int("subscribers", subCfg.SubscribersCount).
		Msg("Catalog event pipeline on NATS JetStream")
	return &catalogPipeline{Pipeline: pipeline, closers: closers}, nil
}
