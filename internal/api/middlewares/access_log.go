package middlewares

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLog writes one line per request. 5xx log at error, 4xx at warn.
func AccessLog(log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			status := sw.Status()
			lvl := zapcore.InfoLevel
			switch {
			case status >= 500:
				lvl = zapcore.ErrorLevel
			case status >= 400:
				lvl = zapcore.WarnLevel
			}
			if ce := log.Check(lvl, "request"); ce != nil {
				ce.Write(
					zap.String("request_id", GetRequestID(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("query", r.URL.RawQuery),
					zap.Int("status", status),
					zap.Int("bytes", sw.bytes),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_ip", clientIP(r)),
				)
			}
		})
	}
}
