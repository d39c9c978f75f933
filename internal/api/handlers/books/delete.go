package books

import (
	"net/http"

	"github.com/5w1tchy/books-store/internal/api/apperr"
	"github.com/5w1tchy/books-store/internal/api/httpx"
	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
	"github.com/5w1tchy/books-store/internal/models"
	"github.com/5w1tchy/books-store/internal/permissions"
)

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	p := mw.PrincipalFrom(r.Context())
	err := h.store.Delete(r.Context(), id, func(cur models.Book) error {
		return permissions.CheckBookWrite(p, cur)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), mw.GetRequestID(r))
	w.WriteHeader(http.StatusNoContent)
}
