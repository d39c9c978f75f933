package middlewares

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/apperr"
)

// Recovery turns a handler panic into a logged 500 with a generic body.
func Recovery(log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Error("panic",
						zap.String("request_id", GetRequestID(r)),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", err),
						zap.Stack("stack"),
					)
					apperr.Internal(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
