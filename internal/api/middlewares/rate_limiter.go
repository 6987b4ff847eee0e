package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// --------- Key helpers ---------

type KeyFunc func(r *http.Request) string

// PerIPKey buckets callers by client IP.
func PerIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":" + ip
	}
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For may have a list: client, proxy1, proxy2...
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func tooManyRequests(w http.ResponseWriter, retrySec int64) {
	if retrySec < 1 {
		retrySec = 1
	}
	w.Header().Set("Retry-After", strconv.FormatInt(retrySec, 10))
	http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
}

// --------- Token Bucket (Redis + Lua) ---------

const tokenBucketLua = `
-- KEYS[1] = bucket key (hash with fields: tokens, ts)
-- ARGV[1] = ratePerS (float)
-- ARGV[2] = capacity (int)
-- Returns: {allowed (1/0), remaining_tokens (int), retry_after_ms (int)}
local key   = KEYS[1]
local rate  = tonumber(ARGV[1])
local cap   = tonumber(ARGV[2])

local t = redis.call('TIME')
local now_ms = (tonumber(t[1]) * 1000) + math.floor(tonumber(t[2]) / 1000)

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts     = tonumber(data[2])

if tokens == nil then
  tokens = cap
  ts = now_ms
end

local delta_ms = now_ms - ts
if delta_ms > 0 then
  tokens = math.min(cap, tokens + (delta_ms / 1000.0) * rate)
end

local allowed = 0
local retry_after_ms = 0

if tokens >= 1.0 then
  tokens = tokens - 1.0
  allowed = 1
else
  retry_after_ms = math.ceil((1.0 - tokens) * 1000.0 / rate)
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now_ms)
redis.call('PEXPIRE', key, math.ceil((cap / rate) * 1000.0))

return {allowed, math.floor(tokens), retry_after_ms}
`

type RedisTokenBucket struct {
	rdb      *redis.Client
	log      *zap.Logger
	keyFn    KeyFunc
	ratePerS float64 // tokens per second
	burst    int     // bucket capacity
	script   *redis.Script
}

func NewRedisTokenBucket(rdb *redis.Client, log *zap.Logger, ratePerSecond float64, burst int, keyFn KeyFunc) *RedisTokenBucket {
	return &RedisTokenBucket{
		rdb:      rdb,
		log:      log,
		keyFn:    keyFn,
		ratePerS: ratePerSecond,
		burst:    burst,
		script:   redis.NewScript(tokenBucketLua),
	}
}

// Middleware fails open: a Redis error or missing client lets the request through.
func (tb *RedisTokenBucket) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tb.rdb == nil {
			next.ServeHTTP(w, r)
			return
		}
		key := tb.keyFn(r)

		res, err := tb.script.Run(r.Context(), tb.rdb, []string{key},
			strconv.FormatFloat(tb.ratePerS, 'f', -1, 64),
			strconv.Itoa(tb.burst),
		).Int64Slice()
		if err != nil || len(res) != 3 {
			tb.log.Warn("token bucket unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Policy", "token-bucket")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))

		if res[0] != 1 {
			sec := (res[2] + 999) / 1000
			tb.log.Info("rate limited",
				zap.String("policy", "token-bucket"),
				zap.String("key", key),
				zap.Int64("retry_after_s", sec),
			)
			tooManyRequests(w, sec)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --------- Sliding Window (Redis ZSET) ---------

type RedisSlidingWindow struct {
	rdb    *redis.Client
	log    *zap.Logger
	keyFn  KeyFunc
	limit  int
	window time.Duration
}

func NewRedisSlidingWindow(rdb *redis.Client, log *zap.Logger, limit int, window time.Duration, keyFn KeyFunc) *RedisSlidingWindow {
	return &RedisSlidingWindow{rdb: rdb, log: log, keyFn: keyFn, limit: limit, window: window}
}

func (sw *RedisSlidingWindow) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sw.rdb == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		now := time.Now().UnixMilli()
		windowMs := sw.window.Milliseconds()
		key := sw.keyFn(r)

		pipe := sw.rdb.TxPipeline()
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: strconv.FormatInt(now, 10) + ":" + uuid.NewString()})
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now-windowMs, 10))
		countCmd := pipe.ZCard(ctx, key)
		pipe.PExpire(ctx, key, sw.window+time.Second)
		if _, err := pipe.Exec(ctx); err != nil {
			sw.log.Warn("sliding window unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		count := int(countCmd.Val())

		w.Header().Set("X-RateLimit-Policy", "sliding-window")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(sw.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, sw.limit-count)))

		if count > sw.limit {
			var retrySec int64 = 1
			oldest, err := sw.rdb.ZRangeWithScores(ctx, key, 0, 0).Result()
			if err == nil && len(oldest) == 1 {
				ms := (int64(oldest[0].Score) + windowMs) - now
				retrySec = (max(ms, 1000) + 999) / 1000
			}
			sw.log.Info("rate limited",
				zap.String("policy", "sliding-window"),
				zap.String("key", key),
				zap.Int64("retry_after_s", retrySec),
			)
			tooManyRequests(w, retrySec)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --------- Fixed Window (Redis INCR) ---------

// FixedWindow caps requests per key to limit within win. Used on the generate
// routes, which cost entropy and are the likeliest scraping target.
func FixedWindow(rdb *redis.Client, log *zap.Logger, keyFn KeyFunc, limit int, win time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := keyFn(r)

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("fixed window unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, win).Err()
			}
			if n > int64(limit) {
				retry := int64(win.Seconds())
				if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					retry = int64(ttl.Seconds())
				}
				log.Info("rate limited",
					zap.String("policy", "fixed-window"),
					zap.String("key", key),
					zap.Int64("retry_after_s", retry),
				)
				tooManyRequests(w, retry)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
