package cache

import (
	"fmt"
	"net/http"
	"time"
)

// Profile is a named freshness policy for API responses, in seconds.
type Profile struct {
	Name                 string `json:"name"`
	MaxAge               int    `json:"max_age"`
	StaleWhileRevalidate int    `json:"stale_while_revalidate"`
}

var (
	SectionData   = Profile{Name: "SECTION_DATA", MaxAge: 7200, StaleWhileRevalidate: 86400}
	MovieDetail   = Profile{Name: "MOVIE_DETAIL", MaxAge: 14400, StaleWhileRevalidate: 86400}
	SearchResults = Profile{Name: "SEARCH_RESULTS", MaxAge: 3600, StaleWhileRevalidate: 7200}
)

// Fixed policies stamped by the edge middleware.
const (
	CDNCacheControl         = "public, max-age=3600, s-maxage=7200, stale-while-revalidate=86400"
	StaticAssetCacheControl = "public, max-age=31536000, immutable"
	ImageCacheControl       = "public, max-age=86400, stale-while-revalidate=604800"
	NoStoreCacheControl     = "no-cache, no-store, must-revalidate"
)

// CacheControl renders the profile as a Cache-Control value. Shared caches
// keep the response three times longer than browsers.
func (p Profile) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d, stale-while-revalidate=%d",
		p.MaxAge, p.MaxAge*3, p.StaleWhileRevalidate)
}

// TTL is how long a fetched payload stays in the response cache.
func (p Profile) TTL() time.Duration {
	return time.Duration(p.MaxAge) * time.Second
}

// Headers returns the Cache-Control header for p.
func Headers(p Profile) http.Header {
	h := make(http.Header, 1)
	h.Set("Cache-Control", p.CacheControl())
	return h
}

// CDNHeaders returns the CDN-Cache-Control header for top-level responses.
func CDNHeaders() http.Header {
	h := make(http.Header, 1)
	h.Set("CDN-Cache-Control", CDNCacheControl)
	return h
}

// Apply copies headers into dst, replacing existing values.
func Apply(dst http.Header, headers ...http.Header) {
	for _, h := range headers {
		for k, v := range h {
			dst[k] = append([]string(nil), v...)
		}
	}
}
