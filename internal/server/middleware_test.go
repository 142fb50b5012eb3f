package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// --- AuthMiddleware ---

func TestAuthMiddleware_Disabled(t *testing.T) {
	h := AuthMiddleware("", okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_InvalidScheme(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Basic secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_HealthExempt(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	for _, path := range []string{"/health", "/health/detailed", "/metrics"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200 without auth", path, w.Code)
		}
	}
}

// --- CORSMiddleware ---

func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	h := CORSMiddleware([]string{"http://localhost:3000"}, okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q", got)
	}
}

func TestCORSMiddleware_DisallowedOrigin(t *testing.T) {
	h := CORSMiddleware([]string{"http://localhost:3000"}, okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	h := CORSMiddleware([]string{"http://localhost:3000"}, okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("preflight missing Allow-Methods")
	}
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	h := CORSMiddleware([]string{"*"}, okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	// The wildcard must never be paired with credentials.
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("Allow-Credentials = %q, want empty", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCORSMiddleware_WildcardPreflight(t *testing.T) {
	h := CORSMiddleware([]string{"*"}, okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://dashboard.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("preflight missing Allow-Methods")
	}
}

func TestCORSMiddleware_WildcardPlusExplicit(t *testing.T) {
	// An explicit entry still wins over the wildcard and keeps credentials.
	h := CORSMiddleware([]string{"http://localhost:3000", "*"}, okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
}

func TestCORSMiddleware_NoOriginHeader(t *testing.T) {
	h := CORSMiddleware([]string{"*"}, okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	// Non-browser requests carry no Origin and get no CORS headers.
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// --- RateLimitMiddleware ---

func TestRateLimitMiddleware_EnforcesBurst(t *testing.T) {
	h := RateLimitMiddleware(1, 2, okHandler())

	statuses := make([]int, 4)
	for i := range statuses {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		statuses[i] = w.Code
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests rejected: %v", statuses)
	}
	if statuses[3] != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %v", statuses)
	}
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	h := RateLimitMiddleware(1, 1, okHandler())

	first := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first client status = %d", w.Code)
	}

	// A different client has its own bucket.
	second := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", w.Code)
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	h := RateLimitMiddleware(0, 0, okHandler())
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
}

func TestLimiterPool_EvictsIdleClients(t *testing.T) {
	pool := newLimiterPool(1, 1)
	base := time.Now()

	pool.get("10.0.0.1", base)
	pool.get("10.0.0.2", base)
	if got := pool.size(); got != 2 {
		t.Fatalf("size = %d, want 2", got)
	}

	// One client stays active; the other goes idle past the TTL.
	pool.get("10.0.0.1", base.Add(limiterIdleTTL))
	pool.get("10.0.0.3", base.Add(limiterIdleTTL+limiterSweepInterval))

	if got := pool.size(); got != 2 {
		t.Errorf("size after sweep = %d, want 2 (idle client evicted)", got)
	}
	pool.mu.Lock()
	_, stale := pool.clients["10.0.0.2"]
	pool.mu.Unlock()
	if stale {
		t.Error("idle client survived the sweep")
	}
}

func TestLimiterPool_KeepsBucketStateAcrossSweeps(t *testing.T) {
	pool := newLimiterPool(0.001, 1)
	base := time.Now()

	l := pool.get("10.0.0.1", base)
	if !l.Allow() {
		t.Fatal("first request should pass")
	}

	// An active client keeps the same exhausted bucket after a sweep runs.
	l = pool.get("10.0.0.1", base.Add(limiterSweepInterval))
	if l.Allow() {
		t.Error("bucket state reset by sweep")
	}
}

// --- RequestLogger ---

func TestRequestLogger_PassesThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequestLogger(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", w.Code)
	}
}
