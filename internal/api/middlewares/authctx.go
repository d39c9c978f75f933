package middlewares

import (
	"context"

	"github.com/5w1tchy/books-store/internal/models"
)

func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFrom returns the authenticated caller, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(ctxKeyPrincipal).(*models.Principal)
	return p
}
