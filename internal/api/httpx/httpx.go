package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrEmptyBody     = errors.New("empty body")
	ErrBodyTooLarge  = errors.New("body too large")
	ErrMalformedJSON = errors.New("malformed JSON")
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

func Created(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusCreated, v)
}

// DecodeJSON reads one JSON value from r.Body into dst. Unknown fields are
// ignored; trailing data after the value is an error.
func DecodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var (
			mbe *http.MaxBytesError
			se  *json.SyntaxError
		)
		switch {
		case errors.As(err, &mbe):
			return ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &se), errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedJSON)
	}
	return nil
}

// PathID parses the {name} path segment as a positive int64.
func PathID(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
