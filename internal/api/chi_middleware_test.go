// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/affinitas/internal/logging"
	"github.com/tomtom215/affinitas/internal/middleware"
)

func TestNewChiMiddleware_DefaultConfig(t *testing.T) {
	m := NewChiMiddleware(nil)

	if m == nil {
		t.Fatal("NewChiMiddleware returned nil")
	}
	if m.config == nil {
		t.Fatal("config is nil")
	}
	// Default should be empty (secure by default - requires explicit configuration)
	if len(m.config.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want []", m.config.CORSAllowedOrigins)
	}
	if m.config.CORSMaxAge != 86400 {
		t.Errorf("CORSMaxAge = %d, want 86400", m.config.CORSMaxAge)
	}
	if m.config.RateLimitRequests != 100 {
		t.Errorf("RateLimitRequests = %d, want 100", m.config.RateLimitRequests)
	}
}

func TestNewChiMiddleware_CustomConfig(t *testing.T) {
	config := &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"https://example.com"},
		CORSAllowedMethods: []string{"GET", "POST"},
		CORSAllowedHeaders: []string{"Content-Type"},
		CORSMaxAge:         3600,
		RateLimitRequests:  50,
		RateLimitWindow:    time.Second * 30,
		RateLimitDisabled:  true,
	}

	m := NewChiMiddleware(config)

	if m.config.CORSAllowedOrigins[0] != "https://example.com" {
		t.Errorf("CORSAllowedOrigins = %v, want [https://example.com]", m.config.CORSAllowedOrigins)
	}
	if m.config.RateLimitRequests != 50 {
		t.Errorf("RateLimitRequests = %d, want 50", m.config.RateLimitRequests)
	}
	if !m.config.RateLimitDisabled {
		t.Error("RateLimitDisabled should be true")
	}
}

func TestNewChiMiddlewareFromSecurity(t *testing.T) {
	corsOrigins := []string{"https://example.com", "https://other.com"}
	m := NewChiMiddlewareFromSecurity(corsOrigins, 200, time.Minute*2, false)

	if len(m.config.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins length = %d, want 2", len(m.config.CORSAllowedOrigins))
	}
	if m.config.RateLimitRequests != 200 {
		t.Errorf("RateLimitRequests = %d, want 200", m.config.RateLimitRequests)
	}
	if m.config.RateLimitWindow != time.Minute*2 {
		t.Errorf("RateLimitWindow = %v, want 2m", m.config.RateLimitWindow)
	}
	if m.config.RateLimitOnLimit == nil {
		t.Error("RateLimitOnLimit should be set so 429s use the response envelope")
	}
}

func TestChiMiddleware_CORS_WildcardOrigin(t *testing.T) {
	config := &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,
	}
	m := NewChiMiddleware(config)

	handlerCalled := false
	handler := m.CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !handlerCalled {
		t.Error("Handler should be called")
	}

	allowOrigin := w.Header().Get("Access-Control-Allow-Origin")
	if allowOrigin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", allowOrigin)
	}
}

func TestChiMiddleware_CORS_PreflightRequest(t *testing.T) {
	config := &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,
	}
	m := NewChiMiddleware(config)

	handlerCalled := false
	handler := m.CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// Preflight should return 200 or 204 without calling handler
	if w.Code != http.StatusOK && w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 200 or 204", w.Code)
	}
	if handlerCalled {
		t.Error("Handler should not be called for OPTIONS preflight")
	}

	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Access-Control-Allow-Methods should be set")
	}
}

func TestChiMiddleware_CORS_DisallowedOrigin(t *testing.T) {
	config := &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"https://allowed.com"},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		CORSMaxAge:         86400,
	}
	m := NewChiMiddleware(config)

	handler := m.CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://not-allowed.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// go-chi/cors doesn't block the request, but doesn't set CORS headers
	// The browser will block the response due to CORS policy
	allowOrigin := w.Header().Get("Access-Control-Allow-Origin")
	if allowOrigin != "" {
		t.Errorf("Access-Control-Allow-Origin should not be set for disallowed origin, got %q", allowOrigin)
	}
}

func TestChiMiddleware_RateLimit_Disabled(t *testing.T) {
	config := &ChiMiddlewareConfig{
		RateLimitDisabled: true,
		RateLimitRequests: 3,
		RateLimitWindow:   time.Second,
	}
	m := NewChiMiddleware(config)

	callCount := 0
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	if callCount != 10 {
		t.Errorf("callCount = %d, want 10", callCount)
	}
}

func TestChiMiddleware_RateLimit_EnvelopeOn429(t *testing.T) {
	m := NewChiMiddlewareFromSecurity(nil, 2, time.Minute, false)

	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("3rd request: status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}
	if code := errorCode(t, last); code != ErrCodeTooManyRequests {
		t.Errorf("Expected error code %s, got %s", ErrCodeTooManyRequests, code)
	}
}

func TestChiMiddleware_RateLimit_DifferentIPs(t *testing.T) {
	config := &ChiMiddlewareConfig{
		RateLimitDisabled: false,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	}
	m := NewChiMiddleware(config)

	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Different IPs should have separate rate limits
	ips := []string{"192.168.1.1:12345", "192.168.1.2:12345", "192.168.1.3:12345"}

	for _, ip := range ips {
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = ip
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("IP %s request %d: status = %d, want %d", ip, i, w.Code, http.StatusOK)
			}
		}
	}
}

func TestChiMiddleware_RateLimitCustom(t *testing.T) {
	m := NewChiMiddleware(DefaultChiMiddlewareConfig())

	handler := m.RateLimitCustom(RateLimitConfig{Requests: 1, Window: time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.50:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("1st request: status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.50:12345"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("2nd request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestIngestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	handler := IngestRateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/v1/items", nil)
		req.RemoteAddr = "10.0.0.1:9999"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("3rd request: status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}
	if code := errorCode(t, last); code != ErrCodeTooManyRequests {
		t.Errorf("Expected error code %s, got %s", ErrCodeTooManyRequests, code)
	}
}

func TestRequestIDWithLogging(t *testing.T) {
	var seenID string
	handler := RequestIDWithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates an ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		headerID := w.Header().Get("X-Request-ID")
		if headerID == "" {
			t.Fatal("Expected X-Request-ID response header to be set")
		}
		if seenID != headerID {
			t.Errorf("Context ID = %q, want %q", seenID, headerID)
		}
	})

	t.Run("preserves an upstream ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "upstream-id" {
			t.Errorf("X-Request-ID = %q, want upstream-id", got)
		}
		if seenID != "upstream-id" {
			t.Errorf("Context ID = %q, want upstream-id", seenID)
		}
	})
}

func TestAPISecurityHeaders(t *testing.T) {
	handler := APISecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("plain HTTP", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
		}
		if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
			t.Errorf("X-Frame-Options = %q, want DENY", got)
		}
		if got := w.Header().Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
			t.Errorf("Referrer-Policy = %q, want strict-origin-when-cross-origin", got)
		}
		if got := w.Header().Get("Strict-Transport-Security"); got != "" {
			t.Errorf("HSTS should not be set for plain HTTP, got %q", got)
		}
	})

	t.Run("behind TLS terminating proxy", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Strict-Transport-Security"); got == "" {
			t.Error("Expected HSTS header for forwarded HTTPS")
		}
	})
}

func TestRequestLogging_CapturesStatus(t *testing.T) {
	handler := RequestLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/tea", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}

func TestStatusResponseWriter_DefaultStatus(t *testing.T) {
	// A handler that never calls WriteHeader must still report 200.
	handler := RequestLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", w.Body.String())
	}
}
