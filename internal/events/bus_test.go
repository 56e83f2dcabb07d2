// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), NewBusLogger(zerolog.Nop()))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscriber().Subscribe(ctx, "catalog.items.upsert")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	sent := message.NewMessage("m1", []byte(`{"entity_id":1}`))
	if err := bus.Publisher().Publish("catalog.items.upsert", sent); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case received := <-messages:
		if received.UUID != "m1" {
			t.Errorf("Expected UUID m1, got %s", received.UUID)
		}
		if string(received.Payload) != `{"entity_id":1}` {
			t.Errorf("Unexpected payload: %s", received.Payload)
		}
		received.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("Message not delivered within timeout")
	}
}

func TestBus_TopicsAreIsolated(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), NewBusLogger(zerolog.Nop()))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deletes, err := bus.Subscriber().Subscribe(ctx, "catalog.items.delete")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := bus.Publisher().Publish("catalog.items.upsert", message.NewMessage("m1", nil)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-deletes:
		t.Errorf("Expected no delivery on unrelated topic, got %s", msg.UUID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_NilLoggerUsesDefault(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), nil)
	if err := bus.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
