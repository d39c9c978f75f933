package middlewares

import (
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/apperr"
)

// CORS allows the configured origins. Requests without an Origin header
// pass untouched; unknown origins are refused.
func CORS(origins []string, log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !slices.Contains(origins, origin) {
				log.Warn("cors: origin blocked",
					zap.String("origin", origin),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path))
				apperr.WriteStatus(w, r, http.StatusForbidden, "Origin not allowed.")
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Max-Age", "3600")
			h.Set("Access-Control-Expose-Headers",
				"X-Request-ID, X-RateLimit-Policy, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After, X-Response-Time")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
