package middlewares

import (
	"net/http"
	"slices"
	"strings"
)

type HPPOptions struct {
	// Whitelist is the set of query keys kept everywhere.
	Whitelist []string
	// StrictPrefixes are paths whose handlers validate their own query
	// keys; unknown keys are left for them to reject.
	StrictPrefixes []string
}

// HPP collapses repeated query keys to their first value and drops keys
// outside the whitelist.
func HPP(opts HPPOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				filterQueryParams(r, opts.Whitelist, opts.strict(r.URL.Path))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (o HPPOptions) strict(path string) bool {
	for _, p := range o.StrictPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func filterQueryParams(r *http.Request, whitelist []string, keepUnknown bool) {
	query := r.URL.Query()
	for k, v := range query {
		if !keepUnknown && !slices.Contains(whitelist, k) {
			query.Del(k)
			continue
		}
		if len(v) > 1 {
			query.Set(k, v[0])
		}
	}
	r.URL.RawQuery = query.Encode()
}

func DefaultHPPOptions() HPPOptions {
	return HPPOptions{
		Whitelist:      []string{"search", "ordering", "price", "filter"},
		StrictPrefixes: []string{"/books"},
	}
}
