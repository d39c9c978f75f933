package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/apperr"
)

const DetailThrottled = "Request was throttled."

type KeyFunc func(r *http.Request) string

// PerIPKey buckets callers by client address.
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

const tokenBucketLua = `
-- KEYS[1] = bucket key (hash: tokens, ts)
-- ARGV[1] = refill rate per second
-- ARGV[2] = capacity
-- returns {allowed (1/0), remaining tokens, retry_after_ms}
local key  = KEYS[1]
local rate = tonumber(ARGV[1])
local cap  = tonumber(ARGV[2])

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

// RedisTokenBucket throttles requests with a per-key token bucket kept in
// redis. Redis errors let the request through.
type RedisTokenBucket struct {
	rdb      *redis.Client
	keyFn    KeyFunc
	ratePerS float64
	burst    int
	methods  []string
	script   *redis.Script
	log      *zap.Logger
}

// NewRedisTokenBucket limits only the given methods; none means all.
func NewRedisTokenBucket(rdb *redis.Client, ratePerSecond float64, burst int, keyFn KeyFunc, log *zap.Logger, methods ...string) *RedisTokenBucket {
	return &RedisTokenBucket{
		rdb:      rdb,
		keyFn:    keyFn,
		ratePerS: ratePerSecond,
		burst:    burst,
		methods:  methods,
		script:   redis.NewScript(tokenBucketLua),
		log:      log,
	}
}

// methodIn reports whether method is listed; an empty list matches all.
func methodIn(methods []string, method string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func (tb *RedisTokenBucket) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !methodIn(tb.methods, r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		key := tb.keyFn(r)
		res, err := tb.script.Run(r.Context(), tb.rdb, []string{key},
			strconv.FormatFloat(tb.ratePerS, 'f', -1, 64),
			strconv.Itoa(tb.burst),
		).Int64Slice()
		if err != nil || len(res) != 3 {
			tb.log.Warn("rate limiter unavailable; allowing request",
				zap.String("request_id", GetRequestID(r)), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Policy", "token-bucket")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))

		if res[0] != 1 {
			sec := max((res[2]+999)/1000, 1)
			w.Header().Set("Retry-After", strconv.FormatInt(sec, 10))
			tb.log.Info("rate limited",
				zap.String("request_id", GetRequestID(r)),
				zap.String("key", key),
				zap.Int64("retry_after_s", sec))
			apperr.WriteStatus(w, r, http.StatusTooManyRequests, DetailThrottled)
			return
		}
		next.ServeHTTP(w, r)
	})
}
