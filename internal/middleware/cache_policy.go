package middleware

import (
	"net/http"
	"strings"

	"github.com/muandane/special-stack/phimgate/internal/cache"
)

// CacheRule assigns a Cache-Control value to the paths Match accepts.
type CacheRule struct {
	Name  string
	Match func(path string) bool
	Value string
}

// DefaultCacheRules mirrors the edge policy of the site. Later rules win.
func DefaultCacheRules() []CacheRule {
	return []CacheRule{
		{
			Name: "static",
			Match: func(p string) bool {
				return strings.HasPrefix(p, "/_astro/") || strings.HasSuffix(p, ".css") || strings.HasSuffix(p, ".js")
			},
			Value: cache.StaticAssetCacheControl,
		},
		{
			Name: "images",
			Match: func(p string) bool {
				return strings.Contains(p, "/images/") || strings.Contains(p, "/_vercel/image")
			},
			Value: cache.ImageCacheControl,
		},
		{
			Name:  "api",
			Match: func(p string) bool { return strings.HasPrefix(p, "/api/") },
			Value: cache.SectionData.CacheControl(),
		},
		{
			Name:  "server-islands",
			Match: func(p string) bool { return strings.Contains(p, "/_server-islands/") },
			Value: cache.MovieDetail.CacheControl(),
		},
	}
}

// CacheControlFor returns the value of the last rule matching path.
func CacheControlFor(rules []CacheRule, path string) (string, bool) {
	value, ok := "", false
	for _, rule := range rules {
		if rule.Match(path) {
			value, ok = rule.Value, true
		}
	}
	return value, ok
}

// WithCachePolicy sets Cache-Control from rules on responses whose handler
// did not set one itself.
func WithCachePolicy(rules []CacheRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, ok := CacheControlFor(rules, r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&cachePolicyWriter{ResponseWriter: w, value: value}, r)
		})
	}
}

type cachePolicyWriter struct {
	http.ResponseWriter
	value       string
	wroteHeader bool
}

func (cw *cachePolicyWriter) WriteHeader(code int) {
	if !cw.wroteHeader {
		cw.wroteHeader = true
		if cw.Header().Get("Cache-Control") == "" && code < http.StatusBadRequest {
			cw.Header().Set("Cache-Control", cw.value)
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cachePolicyWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *cachePolicyWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
