package books

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/books-store/internal/cache/listcache"
	"github.com/5w1tchy/books-store/internal/models"
	"github.com/5w1tchy/books-store/internal/validate"
)

const forbidden = `{"detail":"You do not have permission to perform this action."}`

func newServer(store *memStore) http.Handler {
	return routes(New(store, nil, validate.New(), nil))
}

func decodeBooks(t *testing.T, body []byte) []models.Book {
	t.Helper()
	var out []models.Book
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func ids(books []models.Book) []int64 {
	out := make([]int64, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestList_PriceIsTwoDecimalString(t *testing.T) {
	srv := newServer(newMemStore(fixtures()...))

	rec := do(t, srv, http.MethodGet, "/books/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "25.00", raw[0]["price"])
	assert.Equal(t, "55.00", raw[1]["price"])
	assert.EqualValues(t, 1, raw[0]["owner"])
}

func TestList_Search(t *testing.T) {
	srv := newServer(newMemStore(fixtures()...))

	rec := do(t, srv, http.MethodGet, "/books/?search=Author+1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 3}, ids(decodeBooks(t, rec.Body.Bytes())))
}

func TestList_Ordering(t *testing.T) {
	srv := newServer(newMemStore(fixtures()...))

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"?ordering=price", []int64{1, 2, 3}},
		{"?ordering=-price", []int64{2, 3, 1}},
		{"?ordering=author_name", []int64{1, 3, 2}},
		{"?ordering=-author_name", []int64{2, 3, 1}},
		{"?price=55", []int64{2, 3}},
		{"?search=nothing-matches", []int64{}},
		{"?filter=anything", []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, "/books/"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, ids(decodeBooks(t, rec.Body.Bytes())))
		})
	}
}

func TestList_RejectsUnknownParams(t *testing.T) {
	srv := newServer(newMemStore(fixtures()...))

	rec := do(t, srv, http.MethodGet, "/books/?ordering=name", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ordering"`)

	rec = do(t, srv, http.MethodGet, "/books/?page=2", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page"`)

	rec = do(t, srv, http.MethodGet, "/books/?price=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_CachedUntilWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := newMemStore(fixtures()...)
	srv := routes(New(store, listcache.New(rdb, time.Minute, time.Second, nil), validate.New(), nil))

	first := do(t, srv, http.MethodGet, "/books/?ordering=price", "", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(t, srv, http.MethodGet, "/books/?ordering=price", "", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, store.lists)

	rec := do(t, srv, http.MethodPatch, "/books/1/", `{"price": 5}`, ownerUser)
	require.Equal(t, http.StatusOK, rec.Code)

	third := do(t, srv, http.MethodGet, "/books/?ordering=price", "", nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Contains(t, third.Body.String(), `"5.00"`)
	assert.Equal(t, 2, store.lists)
}

func TestList_CreateShowsUpOnColdCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := newMemStore(fixtures()...)
	srv := routes(New(store, listcache.New(rdb, time.Minute, time.Second, nil), validate.New(), nil))

	do(t, srv, http.MethodGet, "/books/", "", nil)
	rec := do(t, srv, http.MethodPost, "/books/", `{"name": "Programming in Python 3", "price": 150, "author_name": "Mark Summerfield"}`, otherUser)
	require.Equal(t, http.StatusCreated, rec.Code)

	list := do(t, srv, http.MethodGet, "/books/", "", nil)
	assert.Equal(t, "MISS", list.Header().Get("X-Cache"))
	assert.Contains(t, list.Body.String(), "Programming in Python 3")
}

func TestGet(t *testing.T) {
	srv := newServer(newMemStore(fixtures()...))

	rec := do(t, srv, http.MethodGet, "/books/1/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Test book 1","price":"25.00","author_name":"Author 1","owner":1}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/books/99/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/books/abc/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	body := `{"name": "Programming in Python 3", "price": 150, "author_name": "Mark Summerfield", "owner": 99}`
	rec := do(t, srv, http.MethodPost, "/books/", body, otherUser)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var b models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Len(t, store.books, 4)
	assert.Equal(t, "Programming in Python 3", b.Name)
	assert.Equal(t, "150.00", b.Price.String())
	require.NotNil(t, b.OwnerID)
	assert.Equal(t, otherUser.ID, *b.OwnerID)
}

func TestCreate_Anonymous(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPost, "/books/", `{"name":"x","price":1,"author_name":"y"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, rec.Body.String())
	assert.Zero(t, store.writes)
}

func TestCreate_Validation(t *testing.T) {
	srv := newServer(newMemStore())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing fields", `{}`, `{"name":["This field is required."],"price":["This field is required."],"author_name":["This field is required."]}`},
		{"blank name", `{"name":"  ","price":1,"author_name":"a"}`, `{"name":["This field may not be blank."]}`},
		{"null price", `{"name":"n","price":null,"author_name":"a"}`, `{"price":["This field may not be null."]}`},
		{"bad price", `{"name":"n","price":"abc","author_name":"a"}`, `{"price":["A valid number is required."]}`},
		{"negative price", `{"name":"n","price":-1,"author_name":"a"}`, `{"price":["Ensure this value is greater than or equal to 0."]}`},
		{"price too large", `{"name":"n","price":100000,"author_name":"a"}`, `{"price":["Ensure that there are no more than 7 digits in total."]}`},
		{"name not a string", `{"name":5,"price":1,"author_name":"a"}`, `{"name":["Not a valid string."]}`},
		{"list body", `[]`, `{"non_field_errors":["Invalid data. Expected a dictionary."]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/books/", tt.body, ownerUser)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestCreate_NameTooLong(t *testing.T) {
	srv := newServer(newMemStore())
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	rec := do(t, srv, http.MethodPost, "/books/", `{"name":"`+string(long)+`","price":1,"author_name":"a"}`, ownerUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"name":["Ensure this field has no more than 255 characters."]}`, rec.Body.String())
}

func TestCreate_MalformedJSON(t *testing.T) {
	srv := newServer(newMemStore())
	rec := do(t, srv, http.MethodPost, "/books/", `{"name":`, ownerUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"JSON parse error."}`, rec.Body.String())
}

func TestUpdate_Owner(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPut, "/books/1/", `{"name":"Test book 1","price":575,"author_name":"Author 1"}`, ownerUser)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "575.00", store.books[1].Price.String())
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPut, "/books/1/", `{"name":"Test book 1","price":575,"author_name":"Author 1"}`, otherUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, forbidden, rec.Body.String())
	assert.Equal(t, "25.00", store.books[1].Price.String())

	// invalid body still answers 403 for a non-owner
	rec = do(t, srv, http.MethodPatch, "/books/1/", `{"price":"abc"}`, otherUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdate_StaffMayEditAnyBook(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPut, "/books/1/", `{"name":"Test book 1","price":575,"author_name":"Author 1"}`, staffUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "575.00", store.books[1].Price.String())
	assert.Equal(t, int64(1), *store.books[1].OwnerID)
}

func TestUpdate_Anonymous(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPatch, "/books/1/", `{"price":1}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, store.writes)
}

func TestPatch_PartialKeepsOtherFields(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPatch, "/books/2/", `{"author_name":"  New   Author "}`, ownerUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"name":"Test book 2","price":"55.00","author_name":"New Author","owner":1}`, rec.Body.String())
}

func TestPatch_EmptyBodyIsNoop(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPatch, "/books/2/", "", ownerUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Test book 2", store.books[2].Name)
}

func TestPut_RequiresAllFields(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodPut, "/books/1/", `{"price":1}`, ownerUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"name":["This field is required."],"author_name":["This field is required."]}`, rec.Body.String())
	assert.Equal(t, "25.00", store.books[1].Price.String())
}

func TestUpdate_NotFound(t *testing.T) {
	srv := newServer(newMemStore(fixtures()...))
	rec := do(t, srv, http.MethodPatch, "/books/42/", `{"price":1}`, ownerUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	store := newMemStore(fixtures()...)
	srv := newServer(store)

	rec := do(t, srv, http.MethodDelete, "/books/1/", "", otherUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, forbidden, rec.Body.String())
	assert.Contains(t, store.books, int64(1))

	rec = do(t, srv, http.MethodDelete, "/books/1/", "", ownerUser)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.NotContains(t, store.books, int64(1))

	rec = do(t, srv, http.MethodDelete, "/books/1/", "", ownerUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
