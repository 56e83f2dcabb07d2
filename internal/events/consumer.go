// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/cache"
	"github.com/tomtom215/affinitas/internal/metrics"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// Invalidator clears a derived cache when catalog contents change.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a plain function to the Invalidator interface,
// the way http.HandlerFunc adapts handlers.
type InvalidatorFunc func()

// Invalidate calls f.
func (f InvalidatorFunc) Invalidate() { f() }

// Consumer applies catalog events to the local projection: it keeps the
// store size gauges current, drops registered derived caches (recommendation
// responses, API read cache), and optionally replays mutations into the
// vector store when consuming another instance's events.
//
// Event-level deduplication keys on the stable event ID, which survives
// message re-serialization across transports; redeliveries inside the
// window are acknowledged without reprocessing.
type Consumer struct {
	store      *vectorstore.Store
	config     ConsumerConfig
	serializer *Serializer
	logger     zerolog.Logger

	invalidators []Invalidator
	dedup        *cache.LRUCache

	messagesReceived  atomic.Int64
	messagesProcessed atomic.Int64
	duplicatesSkipped atomic.Int64
	parseErrors       atomic.Int64
	lastEventTime     atomic.Value // stores time.Time
}

// ConsumerStats is a snapshot of consumer counters for health reporting.
type ConsumerStats struct {
	MessagesReceived  int64
	MessagesProcessed int64
	DuplicatesSkipped int64
	ParseErrors       int64
	LastEventTime     time.Time
}

// NewConsumer creates a catalog event consumer over the given store.
func NewConsumer(store *vectorstore.Store, cfg ConsumerConfig, logger zerolog.Logger) (*Consumer, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}

	c := &Consumer{
		store:      store,
		config:     cfg,
		serializer: NewSerializer(),
		logger:     logger.With().Str("component", "events.consumer").Logger(),
		dedup:      cache.NewLRUCache(cfg.MaxDedupEntries, cfg.DedupWindow),
	}
	c.lastEventTime.Store(time.Time{})

	return c, nil
}

// AddInvalidator registers a derived cache to drop when the catalog changes.
func (c *Consumer) AddInvalidator(inv Invalidator) {
	c.invalidators = append(c.invalidators, inv)
}

// RegisterHandlers subscribes the consumer to catalog topics on the router.
// With no explicit topics every concrete catalog subject is registered,
// which is what the exact-match in-process bus needs; a NATS subscriber
// passes the single TopicWildcard subscription instead.
func (c *Consumer) RegisterHandlers(r *Router, sub message.Subscriber, topics ...string) {
	if len(topics) == 0 {
		topics = Topics()
	}
	for _, topic := range topics {
		r.AddConsumerHandler("catalog-consumer:"+topic, topic, sub, c.Handle)
	}
}

// Handle processes a single catalog event message.
// This is the handler function passed to Router.AddConsumerHandler.
//
// Error handling:
//   - Decode and validation errors return PermanentError (no retry, straight to DLQ)
//   - Store rejections of bad payloads return PermanentError
//   - Duplicates return nil (ack without processing)
func (c *Consumer) Handle(msg *message.Message) error {
	start := time.Now()
	c.messagesReceived.Add(1)
	c.lastEventTime.Store(start)
	metrics.RecordEventConsumed()

	event, err := c.serializer.Unmarshal(msg.Payload)
	if err != nil {
		c.parseErrors.Add(1)
		metrics.RecordEventParseFailed()
		c.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("failed to decode catalog event")
		return NewPermanentError("decode catalog event", err)
	}

	if err := event.Validate(); err != nil {
		c.parseErrors.Add(1)
		metrics.RecordEventParseFailed()
		c.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("invalid catalog event")
		return NewPermanentError("invalid catalog event", err)
	}

	logger := c.eventLogger(event, msg)

	if c.dedup.IsDuplicate(event.EventID) {
		c.duplicatesSkipped.Add(1)
		metrics.RecordEventDeduplicated()
		logger.Debug().Msg("duplicate catalog event skipped")
		return nil
	}

	if c.config.ApplyMutations {
		if err := c.apply(event); err != nil {
			logger.Error().Err(err).Msg("failed to apply catalog event")
			return err
		}
	}

	c.invalidate()
	metrics.UpdateStoreSizes(c.store.ItemCount(), c.store.UserCount())

	c.messagesProcessed.Add(1)
	metrics.RecordEventProcessed()
	metrics.RecordEventProcessing(time.Since(start))

	logger.Debug().
		Int("entity_id", event.EntityID).
		Dur("elapsed", time.Since(start)).
		Msg("catalog event processed")

	return nil
}

// eventLogger returns a logger carrying the event identity and, when
// present, the publisher's correlation ID.
func (c *Consumer) eventLogger(event *CatalogEvent, msg *message.Message) zerolog.Logger {
	ctx := c.logger.With().
		Str("event_id", event.EventID).
		Str("kind", event.Kind).
		Str("namespace", event.Namespace)
	if id := middleware.MessageCorrelationID(msg); id != "" {
		ctx = ctx.Str("correlation_id", id)
	}
	return ctx.Logger()
}

// apply replays the event's mutation into the local store.
func (c *Consumer) apply(event *CatalogEvent) error {
	switch event.Kind {
	case KindUpsert:
		return c.applyUpsert(event)
	case KindDelete:
		c.applyDelete(event)
	case KindLoad:
		// Bulk loads carry no payload; dropping derived caches is all a
		// replica can do with them.
	}
	return nil
}

func (c *Consumer) applyUpsert(event *CatalogEvent) error {
	var err error
	switch event.Namespace {
	case NamespaceItems:
		err = c.store.UpsertItem(event.Item())
	case NamespaceUsers:
		err = c.store.UpsertUser(event.User())
	}
	if err != nil {
		// Dimension mismatches and invalid vectors will not heal on retry.
		return NewPermanentError("apply upsert", err)
	}
	metrics.RecordStoreOperation(event.Namespace, event.Kind)
	return nil
}

func (c *Consumer) applyDelete(event *CatalogEvent) {
	switch event.Namespace {
	case NamespaceItems:
		c.store.DeleteItem(event.EntityID)
	case NamespaceUsers:
		c.store.DeleteUser(event.EntityID)
	}
	metrics.RecordStoreOperation(event.Namespace, event.Kind)
}

func (c *Consumer) invalidate() {
	for _, inv := range c.invalidators {
		inv.Invalidate()
	}
}

// Stats returns a snapshot of consumer counters.
func (c *Consumer) Stats() ConsumerStats {
	last, _ := c.lastEventTime.Load().(time.Time)
	return ConsumerStats{
		MessagesReceived:  c.messagesReceived.Load(),
		MessagesProcessed: c.messagesProcessed.Load(),
		DuplicatesSkipped: c.duplicatesSkipped.Load(),
		ParseErrors:       c.parseErrors.Load(),
		LastEventTime:     last,
	}
}
