package middlewares

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyPrincipal
)

const RequestIDHeader = "X-Request-ID"

var ridRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,64}$`)

// RequestID keeps a well-formed incoming X-Request-ID or mints a UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if !ridRe.MatchString(rid) {
			rid = uuid.NewString()
		}
		r = r.WithContext(WithRequestID(r.Context(), rid))
		r.Header.Set(RequestIDHeader, rid)
		w.Header().Set(RequestIDHeader, rid)

		next.ServeHTTP(w, r)
	})
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID extracts the value previously set by RequestID.
func GetRequestID(r *http.Request) string {
	v, _ := r.Context().Value(ctxKeyRequestID).(string)
	if v != "" {
		return v
	}
	return r.Header.Get(RequestIDHeader)
}
