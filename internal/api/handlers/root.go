package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/passforge/internal/api/apperr"
	"github.com/5w1tchy/passforge/internal/api/httpx"
	"github.com/5w1tchy/passforge/internal/metrics/usage"
	"github.com/redis/go-redis/v9"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		apperr.WriteStatus(w, r, http.StatusNotFound, "not_found", "no such route")
		return
	}
	httpx.OK(w, map[string]any{
		"service": "passforge",
		"endpoints": []string{
			"POST /v1/analyze",
			"POST /v1/generate",
			"GET /v1/generate",
			"GET /v1/stats",
			"GET /healthz",
		},
	})
}

// Healthz reports readiness. Redis only backs rate limiting, so a nil client is healthy.
func Healthz(rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rdb == nil {
			httpx.OK(w, map[string]any{"redis": "disabled"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "redis_unavailable", "rate limit backend unreachable")
			return
		}
		httpx.OK(w, map[string]any{"redis": "ok"})
	}
}

// Stats returns per-tier totals of analyzed and generated passwords.
func Stats(rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rdb == nil {
			apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "stats_disabled", "usage stats need Redis")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		counts, err := usage.Counts(ctx, rdb)
		if err != nil {
			apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "redis_unavailable", "usage stats unavailable")
			return
		}
		httpx.OK(w, counts)
	}
}
