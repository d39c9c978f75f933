package books

import (
	"encoding/json"
	"net/http"

	"github.com/5w1tchy/books-store/internal/validate"
)

// List serves GET /books/ with search, ordering and price filtering.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lq, err := validate.ParseListQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	lookup := h.cache.Get(r.Context(), lq.CacheKey())
	if lookup.Hit {
		writeRaw(w, "HIT", lookup.Body)
		return
	}

	out, err := h.store.List(r.Context(), lq)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, err := json.Marshal(out)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.cache.Put(r.Context(), lookup, body)
	writeRaw(w, "MISS", body)
}

func writeRaw(w http.ResponseWriter, cache string, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cache)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
