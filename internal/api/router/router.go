package router

import (
	"net/http"
	"time"

	"github.com/5w1tchy/passforge/internal/api/handlers"
	"github.com/5w1tchy/passforge/internal/api/middlewares"
	"github.com/5w1tchy/passforge/internal/metrics/usage"
	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// GenerateLimit caps generate calls per client IP.
type GenerateLimit struct {
	Max    int
	Window time.Duration
}

func Router(d password.Defaults, src password.RandomSource, rdb *redis.Client, rec *usage.Recorder, lim GenerateLimit, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Root
	mux.HandleFunc("GET /", handlers.RootHandler)
	mux.Handle("GET /healthz", handlers.Healthz(rdb))
	mux.Handle("GET /v1/stats", handlers.Stats(rdb))

	// Analyzer
	mux.Handle("POST /v1/analyze", handlers.Analyze(rec))

	// Generator (both methods share one fixed-window budget)
	gate := middlewares.FixedWindow(rdb, log, middlewares.PerIPKey("gen"), lim.Max, lim.Window)
	generate := gate(handlers.Generate(d, src, rec, log))
	mux.Handle("POST /v1/generate", generate)
	mux.Handle("GET /v1/generate", generate)

	return mux
}
