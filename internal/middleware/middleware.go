package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware to h in the order given, so the last one runs
// first. Nil entries are skipped.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middleware {
		if m == nil {
			continue
		}
		h = m(h)
	}
	return h
}
