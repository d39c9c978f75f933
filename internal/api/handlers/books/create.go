package books

import (
	"net/http"

	"github.com/5w1tchy/books-store/internal/api/httpx"
	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
	"github.com/5w1tchy/books-store/internal/permissions"
)

// Create stores a new book owned by the caller. Any owner in the body is ignored.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p := mw.PrincipalFrom(r.Context())
	if err := permissions.CheckCreate(p); err != nil {
		h.writeError(w, r, err)
		return
	}

	patch, err := h.decodeBook(r, false)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.store.Create(r.Context(), fields(patch), p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), mw.GetRequestID(r))
	httpx.Created(w, b)
}
