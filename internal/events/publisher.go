// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/affinitas/internal/logging"
	"github.com/tomtom215/affinitas/internal/metrics"
)

// Publisher wraps a Watermill publisher with resilience patterns.
// It provides circuit breaker protection, publish metrics, and catalog event
// serialization. The underlying transport is the in-process bus by default,
// or NATS JetStream when built with -tags nats.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
	logger         watermill.LoggerAdapter
}

// NewPublisher wraps pub with circuit breaker support and publish metrics.
func NewPublisher(pub message.Publisher, logger watermill.LoggerAdapter) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	return &Publisher{
		publisher: pub,
		logger:    logger,
	}, nil
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// Publish sends a message to the specified topic with circuit breaker
// protection. The request correlation ID, if present in ctx, is carried in
// message metadata so consumers can tie their logs back to the request.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	p.mu.RUnlock()

	if id := logging.CorrelationIDFromContext(ctx); id != "" && middleware.MessageCorrelationID(msg) == "" {
		middleware.SetCorrelationID(id, msg)
	}

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
	} else {
		err = p.publisher.Publish(topic, msg)
	}

	if err != nil {
		metrics.RecordEventPublishFailed()
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	metrics.RecordEventPublished()
	return nil
}

// PublishEvent serializes and publishes a catalog event.
// This is a convenience method that handles serialization and metadata.
func (p *Publisher) PublishEvent(ctx context.Context, event *CatalogEvent) error {
	if event.CorrelationID == "" {
		event.CorrelationID = logging.CorrelationIDFromContext(ctx)
	}

	data, err := SerializeEvent(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	// The event ID doubles as the message UUID so transport-level
	// deduplication keys on the stable event identity.
	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("kind", event.Kind)
	msg.Metadata.Set("namespace", event.Namespace)
	msg.Metadata.Set("entity_id", strconv.Itoa(event.EntityID))
	if event.Source != "" {
		msg.Metadata.Set("source", event.Source)
	}

	return p.Publish(ctx, event.Topic(), msg)
}

// PublishBatch publishes multiple messages to the same topic.
// The first failure aborts the batch and is returned.
func (p *Publisher) PublishBatch(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if err := p.Publish(ctx, topic, msg); err != nil {
			return fmt.Errorf("publish message %s: %w", msg.UUID, err)
		}
	}
	return nil
}

// Close marks the publisher closed and closes the underlying publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}

// WatermillPublisher returns the underlying Watermill publisher.
// This is useful for passing to Watermill components that require the
// native message.Publisher interface (e.g., poison queue middleware).
func (p *Publisher) WatermillPublisher() message.Publisher {
	return p.publisher
}
