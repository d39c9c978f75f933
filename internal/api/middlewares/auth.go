package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/apperr"
	"github.com/5w1tchy/books-store/internal/auth"
	"github.com/5w1tchy/books-store/internal/models"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

// OptionalAuth attaches the principal when a bearer token is present.
// No header means anonymous; a bad header or token is rejected with 401.
func OptionalAuth(a Authenticator, log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr, err := bearer(raw)
			if err != nil {
				apperr.Unauthorized(w, r, apperr.DetailInvalidToken)
				return
			}
			p, err := a.Authenticate(r.Context(), tokenStr)
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				apperr.Unauthorized(w, r, apperr.DetailInvalidToken)
				return
			case err != nil:
				log.Error("authenticate", zap.String("request_id", GetRequestID(r)), zap.Error(err))
				apperr.Internal(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFrom(r.Context()) == nil {
			apperr.Unauthorized(w, r, apperr.DetailNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearer(h string) (string, error) {
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("no bearer")
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", errors.New("empty bearer")
	}
	return tok, nil
}
