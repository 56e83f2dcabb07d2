// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

//go:build !nats

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EmbeddedServer is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable full NATS server support.
type EmbeddedServer struct {
	clientURL string
}

// NewEmbeddedServer returns an error when NATS is not compiled in.
func NewEmbeddedServer(cfg *ServerConfig) (*EmbeddedServer, error) {
	return nil, ErrNATSNotEnabled
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown is a no-op stub.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	return nil
}

// IsRunning always returns false for the stub.
func (s *EmbeddedServer) IsRunning() bool {
	return false
}

// JetStreamEnabled always returns false for the stub.
func (s *EmbeddedServer) JetStreamEnabled() bool {
	return false
}

// NewNATSPublisher returns an error when NATS is not compiled in.
func NewNATSPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return nil, ErrNATSNotEnabled
}

// NewNATSSubscriber returns an error when NATS is not compiled in.
func NewNATSSubscriber(cfg *SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return nil, ErrNATSNotEnabled
}

// StreamInitializer is a stub when NATS is not compiled in.
type StreamInitializer struct{}

// NewStreamInitializer returns an error when NATS is not compiled in.
func NewStreamInitializer(js interface{}, cfg *StreamConfig) (*StreamInitializer, error) {
	return nil, ErrNATSNotEnabled
}

// EnsureStream is a no-op stub.
func (s *StreamInitializer) EnsureStream(ctx context.Context) (interface{}, error) {
	return nil, ErrNATSNotEnabled
}

// GetStreamInfo is a no-op stub.
func (s *StreamInitializer) GetStreamInfo(ctx context.Context) (interface{}, error) {
	return nil, ErrNATSNotEnabled
}

// IsHealthy always returns false when NATS is not compiled in.
func (s *StreamInitializer) IsHealthy(ctx context.Context) bool {
	return false
}

// Config returns an empty configuration.
func (s *StreamInitializer) Config() StreamConfig {
	return StreamConfig{}
}
