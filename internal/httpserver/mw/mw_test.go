package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{"localhost", "localhost", true},
		{"localhost:7878", "localhost", true},
		{"LOCALHOST:7878", "localhost", true},
		{"localhost:7878", "localhost:7878", true},
		{"localhost:9999", "localhost:7878", false},
		{"door.example.com", "*.example.com", true},
		{"door.example.com:443", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"evil.test", "localhost", false},
	}

	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestAllowOnlyCIDRSPassthroughWhenEmpty(t *testing.T) {
	h := AllowOnlyCIDRS(nil, false, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestAllowOnlyCIDRSTrustProxy(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, true, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.1.2.3, 192.0.2.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("forwarded client: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("direct client: status = %d, want 403", rec.Code)
	}
}

func TestLimiterRefill(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60})
	now := time.Now()

	for i := 0; i < 2; i++ {
		if d := l.take("ip", now); !d.allowed {
			t.Fatalf("request %d rejected within burst", i)
		}
	}
	d := l.take("ip", now)
	if d.allowed {
		t.Fatal("third request allowed, want rejected")
	}
	if d.retryAfter != 1 {
		t.Errorf("retryAfter = %d, want 1", d.retryAfter)
	}

	// One token per second.
	if d := l.take("ip", now.Add(time.Second)); !d.allowed {
		t.Error("request after refill rejected")
	}
	if d := l.take("other", now); !d.allowed {
		t.Error("other client shares the bucket")
	}
}

func TestLimiterSweepsIdleBuckets(t *testing.T) {
	now := time.Now()
	l := newLimiter(RateLimitConfig{
		Burst:             1,
		RefillPerIPPerMin: 1,
		IdleTTL:           time.Minute,
		SweepInterval:     time.Second,
		Now:               func() time.Time { return now },
	})
	l.take("a", now)

	l.take("b", now.Add(2*time.Minute))
	if _, ok := l.buckets["a"]; ok {
		t.Error("idle bucket survived the sweep")
	}
	if n := len(l.buckets); n != 1 {
		t.Errorf("buckets = %d after sweep, want 1", n)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	now := time.Now()
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, Now: func() time.Time { return now }})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("remaining = %q, want 0", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
}

func TestRejectForeignOrigin(t *testing.T) {
	h := RejectForeignOrigin([]string{"door.lan:7878"}, logger.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	tests := []struct {
		origin string
		want   int
	}{
		{"", http.StatusOK},
		{"http://localhost:7878", http.StatusOK},
		{"http://127.0.0.1:7878", http.StatusOK},
		{"http://[::1]:7878", http.StatusOK},
		{"http://door.lan:7878", http.StatusOK},
		{"http://door.lan:9999", http.StatusForbidden},
		{"https://evil.example", http.StatusForbidden},
		{"http://localhost.evil.example", http.StatusForbidden},
		{"null", http.StatusForbidden},
		{"file://", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/open?q=x", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("Origin %q: status = %d, want %d", tt.origin, rec.Code, tt.want)
		}
	}
}
