package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
	"github.com/5w1tchy/books-store/internal/models"
	storebooks "github.com/5w1tchy/books-store/internal/store/books"
	"github.com/5w1tchy/books-store/internal/validate"
)

// memStore mimics the SQL store closely enough for handler tests.
type memStore struct {
	mu     sync.Mutex
	books  map[int64]models.Book
	nextID int64
	lists  int
	writes int
}

func newMemStore(books ...models.Book) *memStore {
	s := &memStore{books: map[int64]models.Book{}}
	for _, b := range books {
		s.books[b.ID] = b
		if b.ID > s.nextID {
			s.nextID = b.ID
		}
	}
	return s
}

func (s *memStore) List(_ context.Context, lq validate.ListQuery) ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++

	out := []models.Book{}
	needle := strings.ToLower(lq.Search)
	for _, b := range s.books {
		if needle != "" && !strings.Contains(strings.ToLower(b.Name), needle) &&
			!strings.Contains(strings.ToLower(b.AuthorName), needle) {
			continue
		}
		if lq.Price != nil && !b.Price.Equal(lq.Price.Decimal) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var c int
		switch lq.OrderBy {
		case validate.OrderByPrice:
			c = a.Price.Cmp(b.Price.Decimal)
		case validate.OrderByAuthorName:
			c = strings.Compare(a.AuthorName, b.AuthorName)
		}
		if lq.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *memStore) Get(_ context.Context, id int64) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return models.Book{}, storebooks.ErrNotFound
	}
	return b, nil
}

func (s *memStore) Create(_ context.Context, f storebooks.Fields, ownerID int64) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.writes++
	owner := ownerID
	b := models.Book{ID: s.nextID, Name: f.Name, Price: f.Price, AuthorName: f.AuthorName, OwnerID: &owner}
	s.books[b.ID] = b
	return b, nil
}

func (s *memStore) Update(_ context.Context, id int64, mutate storebooks.Mutator) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.books[id]
	if !ok {
		return models.Book{}, storebooks.ErrNotFound
	}
	next, err := mutate(cur)
	if err != nil {
		return models.Book{}, err
	}
	next.ID, next.OwnerID = cur.ID, cur.OwnerID
	s.books[id] = next
	s.writes++
	return next, nil
}

func (s *memStore) Delete(_ context.Context, id int64, guard storebooks.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.books[id]
	if !ok {
		return storebooks.ErrNotFound
	}
	if err := guard(cur); err != nil {
		return err
	}
	delete(s.books, id)
	s.writes++
	return nil
}

func price(s string) models.Price {
	return models.NewPrice(decimal.RequireFromString(s))
}

func owned(id int64) *int64 { return &id }

// fixtures: books 1 and 3 match "Author 1" (author and name respectively).
func fixtures() []models.Book {
	return []models.Book{
		{ID: 1, Name: "Test book 1", Price: price("25"), AuthorName: "Author 1", OwnerID: owned(1)},
		{ID: 2, Name: "Test book 2", Price: price("55"), AuthorName: "Author 5", OwnerID: owned(1)},
		{ID: 3, Name: "Test book Author 1", Price: price("55"), AuthorName: "Author 2", OwnerID: owned(1)},
	}
}

var (
	ownerUser = &models.Principal{ID: 1, Username: "test_username"}
	otherUser = &models.Principal{ID: 2, Username: "test_username2"}
	staffUser = &models.Principal{ID: 3, Username: "test_username3", IsStaff: true}
)

func routes(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /books/{$}", h.List)
	mux.HandleFunc("POST /books/{$}", h.Create)
	mux.HandleFunc("GET /books/{id}/{$}", h.Get)
	mux.HandleFunc("PUT /books/{id}/{$}", h.Replace)
	mux.HandleFunc("PATCH /books/{id}/{$}", h.Patch)
	mux.HandleFunc("DELETE /books/{id}/{$}", h.Delete)
	return mux
}

func do(t interface{ Helper() }, srv http.Handler, method, target, body string, p *models.Principal) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if p != nil {
		req = req.WithContext(mw.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}
