package books

import (
	"net/http"

	"github.com/5w1tchy/books-store/internal/api/apperr"
	"github.com/5w1tchy/books-store/internal/api/httpx"
)

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	b, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.OK(w, b)
}
