package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limits holds the rate-limiter settings read from the environment.
type Limits struct {
	RatePerSecond  float64
	RateBurst      int
	WindowLimit    int
	Window         time.Duration
	GenerateMax    int
	GenerateWindow time.Duration
	MaxBodySize    int64
}

// Env validates the server configuration. Fail-fast on bad config.
func Env() error {
	if p := os.Getenv("PORT"); p != "" {
		if err := envMinInt("PORT", 1); err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		if n, _ := strconv.Atoi(p); n > 65535 {
			return fmt.Errorf("PORT: must be <= 65535")
		}
	}

	// TLS is all or nothing
	if (os.Getenv("TLS_CERT") == "") != (os.Getenv("TLS_KEY") == "") {
		return errors.New("TLS_CERT and TLS_KEY must be set together")
	}

	if _, err := envFloat("RATE_PER_SECOND", 5); err != nil {
		return fmt.Errorf("RATE_PER_SECOND: %w", err)
	}
	for _, k := range []string{"RATE_BURST", "RATE_WINDOW_LIMIT", "GENERATE_MAX_ATTEMPTS", "MAX_BODY_SIZE"} {
		if err := envMinInt(k, 1); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	if _, err := envDuration("RATE_WINDOW", "60m"); err != nil {
		return fmt.Errorf("RATE_WINDOW: %w", err)
	}
	if _, err := envDuration("GENERATE_WINDOW", "1m"); err != nil {
		return fmt.Errorf("GENERATE_WINDOW: %w", err)
	}

	// Generator bounds (only enforce if explicitly set)
	if err := envMinInt("PASSWORD_DEFAULT_LENGTH", 1); err != nil {
		return fmt.Errorf("PASSWORD_DEFAULT_LENGTH: %w", err)
	}
	if err := envMinInt("PASSWORD_MAX_LENGTH", 1); err != nil {
		return fmt.Errorf("PASSWORD_MAX_LENGTH: %w", err)
	}
	defLen, _ := strconv.Atoi(envOr("PASSWORD_DEFAULT_LENGTH", "16"))
	maxLen, _ := strconv.Atoi(envOr("PASSWORD_MAX_LENGTH", "128"))
	if defLen > maxLen {
		return fmt.Errorf("PASSWORD_DEFAULT_LENGTH=%d exceeds PASSWORD_MAX_LENGTH=%d", defLen, maxLen)
	}
	if v := os.Getenv("STRICT_SECURITY"); v != "" {
		if _, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("STRICT_SECURITY: %w", err)
		}
	}
	if v := os.Getenv("PASSWORD_EXCLUDE_SIMILAR"); v != "" {
		if _, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("PASSWORD_EXCLUDE_SIMILAR: %w", err)
		}
	}
	return nil
}

// RateLimits reads the limiter settings. Call Env first; invalid values fall back to defaults.
func RateLimits() Limits {
	l := Limits{
		RatePerSecond:  5,
		RateBurst:      envInt("RATE_BURST", 20),
		WindowLimit:    envInt("RATE_WINDOW_LIMIT", 3000),
		Window:         60 * time.Minute,
		GenerateMax:    envInt("GENERATE_MAX_ATTEMPTS", 120),
		GenerateWindow: time.Minute,
		MaxBodySize:    int64(envInt("MAX_BODY_SIZE", 64*1024)),
	}
	if f, err := envFloat("RATE_PER_SECOND", 5); err == nil {
		l.RatePerSecond = f
	}
	if d, err := envDuration("RATE_WINDOW", "60m"); err == nil {
		l.Window = d
	}
	if d, err := envDuration("GENERATE_WINDOW", "1m"); err == nil {
		l.GenerateWindow = d
	}
	return l
}

// StrictSecurity reports whether STRICT_SECURITY is set to a true value
// ("1", "true", ...). Unset or unparsable means off.
func StrictSecurity() bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("STRICT_SECURITY")))
	return err == nil && b
}

// HardeningWarnings returns non-fatal warnings you may want to log on startup.
func HardeningWarnings(appEnv string) []string {
	var warns []string

	// Short generated passwords by default?
	if n := envInt("PASSWORD_DEFAULT_LENGTH", 16); n < 12 {
		warns = append(warns, fmt.Sprintf("PASSWORD_DEFAULT_LENGTH=%d is < 12; generated passwords will score below Strong", n))
	}

	// Production-specific nudges
	if strings.EqualFold(appEnv, "production") {
		if os.Getenv("TLS_CERT") == "" {
			warns = append(warns, "TLS_CERT/TLS_KEY not set; serving plain HTTP. Terminate TLS upstream or set them")
		}
		if !StrictSecurity() {
			warns = append(warns, "STRICT_SECURITY not set; cross-origin isolation headers are off")
		}
		// Redis transport/auth checks from envs
		u := os.Getenv("UPSTASH_REDIS_URL")
		if u != "" && strings.HasPrefix(u, "redis://") {
			warns = append(warns, "UPSTASH_REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if u == "" {
			if os.Getenv("REDIS_ADDR") == "" {
				warns = append(warns, "no Redis configured; rate limiting is disabled")
			} else if os.Getenv("REDIS_PASSWORD") == "" || os.Getenv("REDIS_USER") == "" {
				warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
			}
		}
	}

	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	return err
}

// --- helpers ---

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	return f, nil
}

func envDuration(key, def string) (time.Duration, error) {
	s := envOr(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func envMinInt(key string, min int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil // unset -> code defaults apply elsewhere
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("not a number: %v", err)
	}
	if n < min {
		return fmt.Errorf("must be >= %d", min)
	}
	return nil
}
