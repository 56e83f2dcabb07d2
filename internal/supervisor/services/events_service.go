// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package services

import (
	"context"
	"fmt"
)

// EventPipeline matches the internal/events.Pipeline lifecycle.
//
// The pipeline owns the message router, the consumer subscriptions, and the
// transport (in-process channel or NATS JetStream). This interface abstracts
// its Start/Stop pattern so the wrapper can adapt it to suture's Serve
// pattern without the pipeline knowing about supervision.
type EventPipeline interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventPipelineService wraps the catalog event pipeline as a supervised
// service.
//
// It adapts the Start/Stop lifecycle to suture's Serve pattern:
//  1. Calls Start(ctx) to bring up the router and subscriptions
//  2. Blocks until the context is canceled
//  3. Calls Stop() to close the router and flush handlers
//
// The pipeline manages its own goroutines internally, so the wrapper only
// orchestrates the lifecycle transitions.
type EventPipelineService struct {
	pipeline EventPipeline
	name     string
}

// NewEventPipelineService creates a new event pipeline service wrapper.
//
// Example usage:
//
//	pipeline, err := events.NewPipeline(cfg, store, logger)
//	svc := services.NewEventPipelineService(pipeline)
//	tree.AddEventsService(svc)
func NewEventPipelineService(pipeline EventPipeline) *EventPipelineService {
	return &EventPipelineService{
		pipeline: pipeline,
		name:     "event-pipeline",
	}
}

// Serve implements suture.Service.
//
// A Start failure is returned so suture restarts the pipeline with backoff;
// this covers transient NATS connection errors at boot. A Stop failure is
// also surfaced, but only after shutdown has already been requested.
func (s *EventPipelineService) Serve(ctx context.Context) error {
	if err := s.pipeline.Start(ctx); err != nil {
		return fmt.Errorf("event pipeline start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.pipeline.Stop(); err != nil {
		return fmt.Errorf("event pipeline stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *EventPipelineService) String() string {
	return s.name
}
