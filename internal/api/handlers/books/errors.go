package books

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/apperr"
	"github.com/5w1tchy/books-store/internal/api/httpx"
	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
	"github.com/5w1tchy/books-store/internal/permissions"
	storebooks "github.com/5w1tchy/books-store/internal/store/books"
	"github.com/5w1tchy/books-store/internal/validate"
)

// writeError maps store, permission and decode errors to responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe validate.FieldErrors
	switch {
	case errors.As(err, &fe):
		apperr.Validation(w, r, fe)
	case errors.Is(err, storebooks.ErrNotFound):
		apperr.NotFound(w, r)
	case errors.Is(err, permissions.ErrNotAuthenticated):
		apperr.Unauthorized(w, r, apperr.DetailNotAuthenticated)
	case errors.Is(err, permissions.ErrPermissionDenied):
		apperr.Forbidden(w, r)
	case errors.Is(err, httpx.ErrBodyTooLarge):
		apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, apperr.DetailBodyTooLarge)
	case errors.Is(err, httpx.ErrEmptyBody), errors.Is(err, httpx.ErrMalformedJSON):
		apperr.WriteStatus(w, r, http.StatusBadRequest, apperr.DetailMalformedJSON)
	default:
		if _, ok := apperr.FromPG(err); !ok {
			h.log.Error("books handler",
				zap.String("request_id", mw.GetRequestID(r)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		apperr.HandleDBError(w, r, err)
	}
}
