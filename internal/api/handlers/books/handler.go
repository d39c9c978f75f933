package books

import (
	"context"

	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/cache/listcache"
	"github.com/5w1tchy/books-store/internal/models"
	storebooks "github.com/5w1tchy/books-store/internal/store/books"
	"github.com/5w1tchy/books-store/internal/validate"
)

// Store is the book persistence the handlers need.
type Store interface {
	List(ctx context.Context, lq validate.ListQuery) ([]models.Book, error)
	Get(ctx context.Context, id int64) (models.Book, error)
	Create(ctx context.Context, f storebooks.Fields, ownerID int64) (models.Book, error)
	Update(ctx context.Context, id int64, mutate storebooks.Mutator) (models.Book, error)
	Delete(ctx context.Context, id int64, guard storebooks.Guard) error
}

// ListCache caches rendered list responses. A nil *listcache.Cache works.
type ListCache interface {
	Get(ctx context.Context, canonical string) listcache.Lookup
	Put(ctx context.Context, l listcache.Lookup, body []byte)
	Bump(ctx context.Context) error
}

type Handler struct {
	store     Store
	cache     ListCache
	validator *validate.Validator
	log       *zap.Logger
}

func New(store Store, cache ListCache, v *validate.Validator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if cache == nil {
		cache = (*listcache.Cache)(nil)
	}
	return &Handler{store: store, cache: cache, validator: v, log: log}
}

// invalidate drops cached lists after a committed write. Errors are only logged.
func (h *Handler) invalidate(ctx context.Context, requestID string) {
	if err := h.cache.Bump(ctx); err != nil {
		h.log.Warn("list cache bump failed", zap.String("request_id", requestID), zap.Error(err))
	}
}
