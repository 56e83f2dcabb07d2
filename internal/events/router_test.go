// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

func TestDefaultRouterConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultRouterConfig()

	if cfg.CloseTimeout != 30*time.Second {
		t.Errorf("CloseTimeout = %v, want %v", cfg.CloseTimeout, 30*time.Second)
	}
	if cfg.RetryMaxRetries != 5 {
		t.Errorf("RetryMaxRetries = %d, want 5", cfg.RetryMaxRetries)
	}
	if cfg.RetryInitialInterval != time.Second {
		t.Errorf("RetryInitialInterval = %v, want %v", cfg.RetryInitialInterval, time.Second)
	}
	if cfg.RetryMultiplier != 2.0 {
		t.Errorf("RetryMultiplier = %f, want 2.0", cfg.RetryMultiplier)
	}
	if cfg.PoisonQueueTopic != "dlq.catalog" {
		t.Errorf("PoisonQueueTopic = %q, want %q", cfg.PoisonQueueTopic, "dlq.catalog")
	}
	if cfg.DeduplicationEnabled {
		t.Error("DeduplicationEnabled should be false by default (keys on msg.UUID which transports may regenerate)")
	}
}

func TestNewRouter_NilConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	router, err := NewRouter(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	if router.HandlerCount() != 0 {
		t.Errorf("Expected 0 handlers, got %d", router.HandlerCount())
	}
	if router.IsRunning() {
		t.Error("Expected router not running before Run")
	}
}

func TestRouter_AddHandlerMiddleware_UnknownHandler(t *testing.T) {
	t.Parallel()

	router, err := NewRouter(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	if err := router.AddHandlerMiddleware("missing", nil); err == nil {
		t.Error("Expected error for unknown handler name")
	}
}

func TestRouter_Metrics_InitiallyZero(t *testing.T) {
	t.Parallel()

	router, err := NewRouter(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	m := router.Metrics()
	if m.MessagesReceived != 0 || m.MessagesProcessed != 0 || m.MessagesFailed != 0 {
		t.Errorf("Expected zero counters, got %+v", m)
	}
}

// routerHarness wires a router over an in-process bus for delivery tests.
type routerHarness struct {
	bus    *Bus
	router *Router
	cancel context.CancelFunc
}

func newRouterHarness(t *testing.T, cfg RouterConfig) *routerHarness {
	t.Helper()

	wmLogger := NewBusLogger(zerolog.Nop())
	bus := NewBus(DefaultBusConfig(), wmLogger)

	router, err := NewRouter(&cfg, bus.Publisher(), wmLogger)
	if err != nil {
		bus.Close()
		t.Fatalf("NewRouter failed: %v", err)
	}

	return &routerHarness{bus: bus, router: router}
}

func (h *routerHarness) start(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	go func() {
		_ = h.router.Run(ctx)
	}()

	select {
	case <-h.router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("Router did not start within timeout")
	}
}

func (h *routerHarness) stop() {
	if h.cancel != nil {
		h.cancel()
	}
	_ = h.router.Close()
	_ = h.bus.Close()
}

func TestRouter_ProcessesMessages(t *testing.T) {
	cfg := DefaultRouterConfig()
	h := newRouterHarness(t, cfg)
	defer h.stop()

	var handled atomic.Int64
	done := make(chan struct{}, 1)
	h.router.AddConsumerHandler("test-handler", "catalog.items.upsert", h.bus.Subscriber(), func(msg *message.Message) error {
		handled.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	h.start(t)

	msg := message.NewMessage("m1", []byte(`{}`))
	if err := h.bus.Publisher().Publish("catalog.items.upsert", msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Handler was not invoked within timeout")
	}

	if got := handled.Load(); got != 1 {
		t.Errorf("Expected 1 handled message, got %d", got)
	}

	m := h.router.Metrics()
	if m.MessagesReceived != 1 || m.MessagesProcessed != 1 {
		t.Errorf("Expected received=1 processed=1, got %+v", m)
	}
	if !h.router.IsRunning() {
		t.Error("Expected router running")
	}
}

func TestRouter_RetriesTransientFailures(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.RetryMaxRetries = 5
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 10 * time.Millisecond

	h := newRouterHarness(t, cfg)
	defer h.stop()

	var attempts atomic.Int64
	done := make(chan struct{}, 1)
	h.router.AddConsumerHandler("flaky-handler", "catalog.items.delete", h.bus.Subscriber(), func(msg *message.Message) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient failure")
		}
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	h.start(t)

	msg := message.NewMessage("m1", []byte(`{}`))
	if err := h.bus.Publisher().Publish("catalog.items.delete", msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Handler did not succeed within timeout")
	}

	if got := attempts.Load(); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestRouter_PermanentErrorsGoToPoisonQueue(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 10 * time.Millisecond

	h := newRouterHarness(t, cfg)
	defer h.stop()

	// Watch the DLQ before anything runs; GoChannel drops messages
	// published before subscription.
	dlqCtx, dlqCancel := context.WithCancel(context.Background())
	defer dlqCancel()
	dlq, err := h.bus.Subscriber().Subscribe(dlqCtx, cfg.PoisonQueueTopic)
	if err != nil {
		t.Fatalf("Subscribe to DLQ failed: %v", err)
	}

	var attempts atomic.Int64
	h.router.AddConsumerHandler("poison-handler", "catalog.users.upsert", h.bus.Subscriber(), func(msg *message.Message) error {
		attempts.Add(1)
		return NewPermanentError("unfixable payload", nil)
	})

	h.start(t)

	msg := message.NewMessage("poisoned", []byte(`{}`))
	if err := h.bus.Publisher().Publish("catalog.users.upsert", msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case dead := <-dlq:
		if dead.UUID != "poisoned" {
			t.Errorf("Expected poisoned message in DLQ, got %s", dead.UUID)
		}
		dead.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("Message did not reach poison queue within timeout")
	}

	// Permanent failures skip the retry budget
	if got := attempts.Load(); got != 1 {
		t.Errorf("Expected 1 attempt for permanent error, got %d", got)
	}
}

func TestRouter_CloseStopsProcessing(t *testing.T) {
	cfg := DefaultRouterConfig()
	h := newRouterHarness(t, cfg)

	h.router.AddConsumerHandler("noop", "catalog.items.load", h.bus.Subscriber(), func(msg *message.Message) error {
		return nil
	})

	h.start(t)
	if !h.router.IsRunning() {
		t.Fatal("Expected router running after start")
	}

	h.stop()

	deadline := time.Now().Add(5 * time.Second)
	for h.router.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.router.IsRunning() {
		t.Error("Expected router stopped after Close")
	}
}

func TestRouter_RunAsync(t *testing.T) {
	cfg := DefaultRouterConfig()
	h := newRouterHarness(t, cfg)
	defer h.stop()

	h.router.AddConsumerHandler("noop", "catalog.items.load", h.bus.Subscriber(), func(msg *message.Message) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	select {
	case <-h.router.RunAsync(ctx):
	case <-time.After(5 * time.Second):
		t.Fatal("RunAsync did not signal running within timeout")
	}

	if !h.router.IsRunning() {
		t.Error("Expected router running after RunAsync")
	}
}
