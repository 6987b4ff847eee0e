package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mw "github.com/5w1tchy/passforge/internal/api/middlewares"
	"github.com/5w1tchy/passforge/internal/api/router"
	"github.com/5w1tchy/passforge/internal/logx"
	"github.com/5w1tchy/passforge/internal/metrics/usage"
	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/5w1tchy/passforge/internal/validate"
	"github.com/5w1tchy/passforge/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup runs before the process exits.
func run() int {

	_ = godotenv.Load("../../.env", ".env")

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	log, err := logx.New(appEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if err := validate.Env(); err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return 1
	}
	for _, w := range validate.HardeningWarnings(appEnv) {
		log.Warn("hardening", zap.String("warning", w))
	}

	rdb, err := newRedis()
	if err != nil {
		log.Error("redis config", zap.Error(err))
		return 1
	}
	if rdb == nil {
		log.Warn("no Redis configured, rate limiting disabled")
	} else {
		defer rdb.Close()
		// Fail fast if Redis isn’t reachable
		if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
			log.Error("Redis connection failed", zap.Error(err))
			return 1
		}
		log.Info("connected to Redis")
	}

	lim := validate.RateLimits()
	defaults := password.LoadDefaultsFromEnv()

	rec := usage.Start(rdb, log, 10000, 2)
	defer rec.Shutdown()

	api := router.Router(defaults, password.CryptoSource{}, rdb, rec,
		router.GenerateLimit{Max: lim.GenerateMax, Window: lim.GenerateWindow}, log)
	secureMux := secure(api, rdb, lim, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           secureMux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		cert, key := os.Getenv("TLS_CERT"), os.Getenv("TLS_KEY")
		log.Info("server listening", zap.String("addr", server.Addr), zap.Bool("tls", cert != ""))
		if cert != "" {
			errCh <- server.ListenAndServeTLS(cert, key)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}
	return 0
}

// secure wraps api in the middleware chain, outermost first. The body limit
// sits ahead of HPP, whose ParseForm would otherwise read an unbounded body.
func secure(api http.Handler, rdb *redis.Client, lim validate.Limits, log *zap.Logger) http.Handler {
	tb := mw.NewRedisTokenBucket(rdb, log, lim.RatePerSecond, lim.RateBurst, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, log, lim.WindowLimit, lim.Window, mw.PerIPKey("sw"))

	return utils.ApplyMiddleware(
		api,
		mw.RequestID,
		mw.Recovery(log),
		mw.Cors(mw.AllowedOriginsFromEnv(), log),
		mw.ResponseTime(log),
		mw.BodySizeLimit(lim.MaxBodySize),
		mw.HPP(mw.DefaultHPPOptions()),
		tb.Middleware,
		sw.Middleware,
		mw.Compression,
		mw.SecurityHeaders(validate.StrictSecurity()),
	)
}

// newRedis returns nil when no Redis is configured.
func newRedis() (*redis.Client, error) {
	if url := os.Getenv("UPSTASH_REDIS_URL"); url != "" {
		// Path A: full Upstash URL (recommended)
		opt, err := redis.ParseURL(url) // e.g. rediss://default:<token>@host:port
		if err != nil {
			return nil, fmt.Errorf("invalid UPSTASH_REDIS_URL: %w", err)
		}
		if opt.TLSConfig == nil && strings.HasPrefix(url, "rediss://") {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt), nil
	}

	// Path B: split fields
	addr := os.Getenv("REDIS_ADDR") // host:port (no scheme)
	if addr == "" {
		return nil, nil
	}
	opt := &redis.Options{
		Addr:         addr,
		Username:     os.Getenv("REDIS_USER"),     // "default" for Upstash
		Password:     os.Getenv("REDIS_PASSWORD"), // token
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if opt.Password != "" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opt), nil
}
