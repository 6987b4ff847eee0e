package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/5w1tchy/passforge/internal/api/middlewares"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/v1/generate", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFixedWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	h := mw.FixedWindow(rdb, zap.NewNop(), mw.PerIPKey("gen"), 2, time.Minute)(okHandler)

	for i := 0; i < 2; i++ {
		if rec := hit(h, "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := hit(h, "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After")
	}

	// other callers are unaffected
	if rec := hit(h, "10.0.0.2"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for another IP, got %d", rec.Code)
	}

	mr.FastForward(2 * time.Minute)
	if rec := hit(h, "10.0.0.1"); rec.Code != http.StatusOK {
		t.Errorf("expected window reset, got %d", rec.Code)
	}
}

func TestSlidingWindow(t *testing.T) {
	_, rdb := newTestRedis(t)
	sw := mw.NewRedisSlidingWindow(rdb, zap.NewNop(), 3, time.Hour, mw.PerIPKey("sw"))
	h := sw.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		rec := hit(h, "10.0.0.3")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Policy") != "sliding-window" {
			t.Error("expected policy header")
		}
	}
	if rec := hit(h, "10.0.0.3"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
}

func TestTokenBucket(t *testing.T) {
	_, rdb := newTestRedis(t)
	tb := mw.NewRedisTokenBucket(rdb, zap.NewNop(), 0.001, 1, mw.PerIPKey("tb"))
	h := tb.Middleware(okHandler)

	if rec := hit(h, "10.0.0.4"); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec := hit(h, "10.0.0.4"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected empty bucket to block, got %d", rec.Code)
	}
}

func TestLimitersFailOpen(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	handlers := []http.Handler{
		mw.FixedWindow(rdb, zap.NewNop(), mw.PerIPKey("gen"), 1, time.Minute)(okHandler),
		mw.NewRedisSlidingWindow(rdb, zap.NewNop(), 1, time.Minute, mw.PerIPKey("sw")).Middleware(okHandler),
		mw.NewRedisTokenBucket(rdb, zap.NewNop(), 1, 1, mw.PerIPKey("tb")).Middleware(okHandler),
		mw.FixedWindow(nil, zap.NewNop(), mw.PerIPKey("gen"), 1, time.Minute)(okHandler),
	}
	for i, h := range handlers {
		for n := 0; n < 3; n++ {
			if rec := hit(h, "10.0.0.5"); rec.Code != http.StatusOK {
				t.Errorf("limiter %d blocked with redis down: %d", i, rec.Code)
			}
		}
	}
}

func TestPerIPKeyPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := mw.PerIPKey("p")(req); got != "p:203.0.113.9" {
		t.Errorf("key = %q", got)
	}
}
