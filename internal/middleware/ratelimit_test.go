// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("basic rate limiting", func(t *testing.T) {
		limiter := NewRateLimiter(2, 1*time.Second)
		defer limiter.Stop()
		ip := "192.168.1.1"

		if !limiter.Allow(ip) {
			t.Error("First request should be allowed")
		}
		if !limiter.Allow(ip) {
			t.Error("Second request should be allowed")
		}
		if limiter.Allow(ip) {
			t.Error("Third request should be denied")
		}

		// Tokens refill evenly across the window, one per 500ms here.
		time.Sleep(700 * time.Millisecond)
		if !limiter.Allow(ip) {
			t.Error("Request after refill should be allowed")
		}
	})

	t.Run("multiple clients rate limited independently", func(t *testing.T) {
		limiter := NewRateLimiter(1, 1*time.Minute)
		defer limiter.Stop()

		if !limiter.Allow("192.168.1.1") || !limiter.Allow("192.168.1.2") {
			t.Error("First request from each client should be allowed")
		}
		if limiter.Allow("192.168.1.1") || limiter.Allow("192.168.1.2") {
			t.Error("Second request from each client should be denied")
		}
	})

	t.Run("defaults applied for invalid config", func(t *testing.T) {
		limiter := NewRateLimiter(0, 0)
		defer limiter.Stop()

		if limiter.burst != 1 {
			t.Errorf("Expected burst 1, got %d", limiter.burst)
		}
		if !limiter.Allow("10.0.0.1") {
			t.Error("First request should be allowed")
		}
		if limiter.Allow("10.0.0.1") {
			t.Error("Second request should be denied")
		}
	})

	t.Run("cleanup removes idle limiters", func(t *testing.T) {
		limiter := NewRateLimiter(100, 1*time.Minute)
		defer limiter.Stop()
		for _, ip := range []string{"192.168.1.1", "192.168.1.2", "192.168.1.3"} {
			limiter.Allow(ip)
		}

		limiter.mu.Lock()
		if len(limiter.limiters) != 3 {
			t.Errorf("Expected 3 limiters, got %d", len(limiter.limiters))
		}
		for ip := range limiter.limiters {
			limiter.limiters[ip].lastAccess = time.Now().Add(-2 * time.Hour)
		}
		limiter.mu.Unlock()

		limiter.cleanup()

		limiter.mu.Lock()
		count := len(limiter.limiters)
		limiter.mu.Unlock()

		if count != 0 {
			t.Errorf("Expected 0 limiters after cleanup, got %d", count)
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		limiter := NewRateLimiter(100, 1*time.Minute)
		limiter.Stop()
		limiter.Stop()
	})
}

func TestRateLimiter_Limit(t *testing.T) {
	limiter := NewRateLimiter(1, 1*time.Minute)
	defer limiter.Stop()

	handler := limiter.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)
	req.RemoteAddr = "203.0.113.7:4444"
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}

	// A different client still has its own bucket.
	other := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)
	other.RemoteAddr = "203.0.113.8:4444"
	rec = httptest.NewRecorder()
	handler(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for second client, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"IPv4 with port", "192.168.1.1:12345", "192.168.1.1"},
		{"IPv4 without port", "192.168.1.1", "192.168.1.1"},
		{"IPv6 with port", "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
			}
		})
	}
}
