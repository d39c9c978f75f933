// Package handlers holds the small service endpoints; resource handlers
// live in the books and relations subpackages.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/books-store/internal/api/apperr"
	"github.com/5w1tchy/books-store/internal/api/httpx"
)

// Root lists the resource endpoints.
func Root(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, map[string]string{
		"books":     "/books/",
		"relations": "/relations/{book_id}/",
	})
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz reports 200 when the database answers within two seconds.
func Healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Database unavailable.")
			return
		}
		httpx.OK(w, map[string]string{"status": "ok"})
	}
}
