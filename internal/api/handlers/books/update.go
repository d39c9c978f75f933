package books

import (
	"net/http"

	"github.com/5w1tchy/books-store/internal/api/apperr"
	"github.com/5w1tchy/books-store/internal/api/httpx"
	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
	"github.com/5w1tchy/books-store/internal/models"
	"github.com/5w1tchy/books-store/internal/permissions"
)

// Replace serves PUT: every writable field must be present.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// Patch serves PATCH: only the fields present change.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// update checks, in order, that the book exists, that the caller may
// change it and that the body is valid. The permission decision runs
// against the locked row.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	p := mw.PrincipalFrom(r.Context())
	patch, bodyErr := h.decodeBook(r, partial)

	b, err := h.store.Update(r.Context(), id, func(cur models.Book) (models.Book, error) {
		if err := permissions.CheckBookWrite(p, cur); err != nil {
			return cur, err
		}
		if bodyErr != nil {
			return cur, bodyErr
		}
		return patch.Apply(cur), nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), mw.GetRequestID(r))
	httpx.OK(w, b)
}
