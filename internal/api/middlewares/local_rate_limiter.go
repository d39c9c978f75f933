package middlewares

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/5w1tchy/books-store/internal/api/apperr"
)

// maxLocalBuckets caps the key map; idle buckets are swept once it is hit.
const maxLocalBuckets = 10000

type localBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalTokenBucket is the in-process limiter used when redis is not
// configured. Limits are per instance.
type LocalTokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*localBucket
	limit   rate.Limit
	burst   int
	keyFn   KeyFunc
	methods []string
	log     *zap.Logger
	now     func() time.Time
}

func NewLocalTokenBucket(ratePerSecond float64, burst int, keyFn KeyFunc, log *zap.Logger, methods ...string) *LocalTokenBucket {
	return &LocalTokenBucket{
		buckets: make(map[string]*localBucket),
		limit:   rate.Limit(ratePerSecond),
		burst:   burst,
		keyFn:   keyFn,
		methods: methods,
		log:     log,
		now:     time.Now,
	}
}

func (tb *LocalTokenBucket) limiter(key string) *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if b, ok := tb.buckets[key]; ok {
		b.seen = now
		return b.lim
	}
	if len(tb.buckets) >= maxLocalBuckets {
		idle := time.Duration(float64(tb.burst)/float64(tb.limit)*float64(time.Second)) + time.Minute
		for k, b := range tb.buckets {
			if now.Sub(b.seen) > idle {
				delete(tb.buckets, k)
			}
		}
	}
	b := &localBucket{lim: rate.NewLimiter(tb.limit, tb.burst), seen: now}
	tb.buckets[key] = b
	return b.lim
}

func (tb *LocalTokenBucket) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !methodIn(tb.methods, r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		key := tb.keyFn(r)
		res := tb.limiter(key).ReserveN(tb.now(), 1)

		w.Header().Set("X-RateLimit-Policy", "token-bucket")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.burst))

		if delay := res.DelayFrom(tb.now()); delay > 0 {
			res.CancelAt(tb.now())
			sec := max(int64((delay+time.Second-1)/time.Second), 1)
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
