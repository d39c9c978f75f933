package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/handlers"
	"github.com/5w1tchy/books-store/internal/api/handlers/books"
	"github.com/5w1tchy/books-store/internal/api/handlers/relations"
	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	Books     *books.Handler
	Relations *relations.Handler
	Auth      mw.Authenticator
	DB        handlers.Pinger
	Redis     *redis.Client // nil limits in process
	Log       *zap.Logger

	Registry *prometheus.Registry // nil gets a private registry

	AllowedOrigins  []string
	MaxBodySize     int64
	RateLimitPerSec float64
	RateLimitBurst  int
}

// routes registers every endpoint on a fresh mux. Each resource path is
// served with and without the trailing slash.
func routes(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handlers.Root)
	mux.HandleFunc("GET /healthz", handlers.Healthz(d.DB))
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	both := func(method, path string, h http.Handler) {
		mux.Handle(method+" "+path, h)
		mux.Handle(method+" "+path+"/{$}", h)
	}

	both(http.MethodGet, "/books", http.HandlerFunc(d.Books.List))
	both(http.MethodPost, "/books", http.HandlerFunc(d.Books.Create))
	both(http.MethodGet, "/books/{id}", http.HandlerFunc(d.Books.Get))
	both(http.MethodPut, "/books/{id}", http.HandlerFunc(d.Books.Replace))
	both(http.MethodPatch, "/books/{id}", http.HandlerFunc(d.Books.Patch))
	both(http.MethodDelete, "/books/{id}", http.HandlerFunc(d.Books.Delete))

	both(http.MethodGet, "/relations/{book_id}", mw.RequireAuth(http.HandlerFunc(d.Relations.Get)))
	both(http.MethodPut, "/relations/{book_id}", mw.RequireAuth(http.HandlerFunc(d.Relations.Update)))
	both(http.MethodPatch, "/relations/{book_id}", mw.RequireAuth(http.HandlerFunc(d.Relations.Update)))

	return mux
}

// New returns the routes wrapped in the middleware chain, outermost first.
func New(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	var rateLimit mw.Middleware
	mutating := []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
	switch {
	case d.RateLimitPerSec <= 0 || d.RateLimitBurst <= 0:
	case d.Redis != nil:
		rateLimit = mw.NewRedisTokenBucket(d.Redis, d.RateLimitPerSec, d.RateLimitBurst, mw.PerIPKey("rl:tb"), d.Log, mutating...).Middleware
	default:
		rateLimit = mw.NewLocalTokenBucket(d.RateLimitPerSec, d.RateLimitBurst, mw.PerIPKey("rl:tb"), d.Log, mutating...).Middleware
	}

	return mw.Apply(routes(d),
		mw.Recovery(d.Log),
		mw.RequestID,
		mw.AccessLog(d.Log),
		mw.NewMetrics(d.Registry).Middleware,
		mw.ResponseTime,
		mw.SecurityHeaders,
		mw.CORS(d.AllowedOrigins, d.Log),
		mw.Compression,
		mw.HPP(mw.DefaultHPPOptions()),
		mw.BodySizeLimit(d.MaxBodySize),
		rateLimit,
		mw.OptionalAuth(d.Auth, d.Log),
	)
}
