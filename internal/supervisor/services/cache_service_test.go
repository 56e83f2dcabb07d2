// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockResponseCache is a mock implementation for testing.
type mockResponseCache struct {
	mu         sync.Mutex
	pruneCalls int
	evicted    int
	size       int
}

func (m *mockResponseCache) PruneExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneCalls++
	return m.evicted
}

func (m *mockResponseCache) CacheSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

func (m *mockResponseCache) getPruneCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pruneCalls
}

func TestCacheMaintenanceService_String(t *testing.T) {
	logger := zerolog.Nop()
	cache := &mockResponseCache{}
	cfg := CacheMaintenanceConfig{
		SweepInterval: time.Hour,
	}

	service := NewCacheMaintenanceService(cache, cfg, logger)

	if got := service.String(); got != "cache-maintenance" {
		t.Errorf("String() = %q, want %q", got, "cache-maintenance")
	}
}

func TestCacheMaintenanceService_SweepOnStartup(t *testing.T) {
	logger := zerolog.Nop()
	cache := &mockResponseCache{evicted: 3, size: 7}
	cfg := CacheMaintenanceConfig{
		SweepOnStartup: true,
		SweepInterval:  time.Hour, // Long interval to avoid scheduled sweeps
	}

	service := NewCacheMaintenanceService(cache, cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	if got := cache.getPruneCalls(); got != 1 {
		t.Errorf("PruneExpired() called %d times, want 1", got)
	}
}

func TestCacheMaintenanceService_NoSweepOnStartup(t *testing.T) {
	logger := zerolog.Nop()
	cache := &mockResponseCache{}
	cfg := CacheMaintenanceConfig{
		SweepOnStartup: false,
		SweepInterval:  time.Hour,
	}

	service := NewCacheMaintenanceService(cache, cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	if got := cache.getPruneCalls(); got != 0 {
		t.Errorf("PruneExpired() called %d times, want 0", got)
	}
}

func TestCacheMaintenanceService_ScheduledSweeps(t *testing.T) {
	logger := zerolog.Nop()
	cache := &mockResponseCache{}
	cfg := CacheMaintenanceConfig{
		SweepOnStartup: false,
		SweepInterval:  50 * time.Millisecond, // Short interval for testing
	}

	service := NewCacheMaintenanceService(cache, cfg, logger)

	// Run long enough for 2 scheduled sweeps.
	ctx, cancel := context.WithTimeout(context.Background(), 130*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	if got := cache.getPruneCalls(); got < 2 {
		t.Errorf("PruneExpired() called %d times, want >= 2", got)
	}
}

func TestCacheMaintenanceService_DefaultInterval(t *testing.T) {
	logger := zerolog.Nop()
	cache := &mockResponseCache{}

	// Zero interval falls back to the default, so no ticks fire in 100ms.
	service := NewCacheMaintenanceService(cache, CacheMaintenanceConfig{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	if got := cache.getPruneCalls(); got != 0 {
		t.Errorf("PruneExpired() called %d times, want 0", got)
	}
}

func TestCacheMaintenanceService_GracefulShutdown(t *testing.T) {
	logger := zerolog.Nop()
	cache := &mockResponseCache{}
	cfg := CacheMaintenanceConfig{
		SweepInterval: time.Hour,
	}

	service := NewCacheMaintenanceService(cache, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- service.Serve(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not complete in time")
	}
}
