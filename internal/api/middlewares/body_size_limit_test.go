package middlewares_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	mw "github.com/5w1tchy/books-store/internal/api/middlewares"
)

func readAll(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func TestBodySizeLimit(t *testing.T) {
	handler := mw.BodySizeLimit(16)(http.HandlerFunc(readAll))

	tests := []struct {
		name   string
		method string
		size   int
		want   int
	}{
		{"small post", http.MethodPost, 10, http.StatusOK},
		{"exact limit", http.MethodPatch, 16, http.StatusOK},
		{"large put", http.MethodPut, 17, http.StatusRequestEntityTooLarge},
		{"get is not limited", http.MethodGet, 64, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/books/", bytes.NewReader(bytes.Repeat([]byte("a"), tt.size)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
