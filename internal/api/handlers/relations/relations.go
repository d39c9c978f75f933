package relations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/apperr"
	"github.com/5w1tchy/books-store/internal/api/httpx"
	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
	"github.com/5w1tchy/books-store/internal/models"
	storerelations "github.com/5w1tchy/books-store/internal/store/relations"
	"github.com/5w1tchy/books-store/internal/validate"
)

type Store interface {
	Get(ctx context.Context, userID, bookID int64) (models.UserBookRelation, error)
	Upsert(ctx context.Context, userID, bookID int64, p models.RelationPatch) (models.UserBookRelation, error)
}

// BookChecker reports whether a book exists.
type BookChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Handler struct {
	store     Store
	books     BookChecker
	validator *validate.Validator
	log       *zap.Logger
}

func New(store Store, books BookChecker, v *validate.Validator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, books: books, validator: v, log: log}
}

// relationInput is the writable part of a relation. JSON null and a
// missing key both leave the stored value as it is.
type relationInput struct {
	Like        *bool `json:"like"`
	InBookmarks *bool `json:"in_bookmarks"`
	Rate        *int  `json:"rate" validate:"omitempty,gte=1,lte=5"`
}

var typeMessages = map[string]string{
	"like":         "Must be a valid boolean.",
	"in_bookmarks": "Must be a valid boolean.",
	"rate":         "A valid integer is required.",
}

func (h *Handler) decode(r *http.Request) (models.RelationPatch, error) {
	var in relationInput
	err := httpx.DecodeJSON(r, &in)
	var ute *json.UnmarshalTypeError
	switch {
	case err == nil, errors.Is(err, httpx.ErrEmptyBody):
	case errors.As(err, &ute):
		if msg, ok := typeMessages[ute.Field]; ok {
			return models.RelationPatch{}, validate.FieldErrors{ute.Field: {msg}}
		}
		return models.RelationPatch{}, validate.FieldErrors{"non_field_errors": {"Invalid data. Expected a dictionary."}}
	default:
		return models.RelationPatch{}, err
	}
	if fe := h.validator.Struct(in); len(fe) > 0 {
		return models.RelationPatch{}, fe
	}
	return models.RelationPatch{Like: in.Like, InBookmarks: in.InBookmarks, Rate: in.Rate}, nil
}

// Get returns the caller's relation to the book.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathID(r, "book_id")
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	p := mw.PrincipalFrom(r.Context())
	rel, err := h.store.Get(r.Context(), p.ID, bookID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.OK(w, rel)
}

// Update serves PUT and PATCH. The row is created on first use and only
// the fields present in the body change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathID(r, "book_id")
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	p := mw.PrincipalFrom(r.Context())

	patch, err := h.decode(r)
	if err != nil {
		// a missing book outranks a bad body
		exists, xerr := h.books.Exists(r.Context(), bookID)
		if xerr != nil {
			h.log.Warn("book existence check failed",
				zap.String("request_id", mw.GetRequestID(r)),
				zap.Int64("book_id", bookID),
				zap.Error(xerr))
		} else if !exists {
			apperr.NotFound(w, r)
			return
		}
		h.writeError(w, r, err)
		return
	}

	rel, err := h.store.Upsert(r.Context(), p.ID, bookID, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.OK(w, rel)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe validate.FieldErrors
	switch {
	case errors.As(err, &fe):
		apperr.Validation(w, r, fe)
	case errors.Is(err, storerelations.ErrNotFound), errors.Is(err, storerelations.ErrBookNotFound):
		apperr.NotFound(w, r)
	case errors.Is(err, httpx.ErrBodyTooLarge):
		apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, apperr.DetailBodyTooLarge)
	case errors.Is(err, httpx.ErrMalformedJSON):
		apperr.WriteStatus(w, r, http.StatusBadRequest, apperr.DetailMalformedJSON)
	default:
		if _, ok := apperr.FromPG(err); !ok {
			h.log.Error("relations handler",
				zap.String("request_id", mw.GetRequestID(r)),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		apperr.HandleDBError(w, r, err)
	}
}
