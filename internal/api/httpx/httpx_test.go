package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "x", dst.Name)
}

func TestDecodeJSON_Errors(t *testing.T) {
	var dst map[string]any

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}{"b":2}`))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrMalformedJSON)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrMalformedJSON)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a" 1}`))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrMalformedJSON)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	r.Body = http.MaxBytesReader(httptest.NewRecorder(), r.Body, 8)
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrBodyTooLarge)
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var ok bool
	mux.HandleFunc("GET /books/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, ok = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/42", nil))
	assert.True(t, ok)
	assert.Equal(t, int64(42), got)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/abc", nil))
	assert.False(t, ok)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/-1", nil))
	assert.False(t, ok)
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}
