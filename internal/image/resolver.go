package image

import "strings"

// DefaultOrigin is the CDN that serves catalog artwork referenced by path.
const DefaultOrigin = "https://phimimg.com/"

// Resolver turns image references from the catalog into absolute URLs.
type Resolver struct {
	Origin string
}

// NewResolver returns a Resolver for origin, falling back to DefaultOrigin.
func NewResolver(origin string) Resolver {
	if origin == "" {
		origin = DefaultOrigin
	}
	return Resolver{Origin: origin}
}

// Resolve returns the absolute URL for ref. Absolute references are returned
// unchanged, protocol-relative ones are upgraded to https and paths are joined
// to the origin with exactly one slash. An empty reference reports false.
func (r Resolver) Resolve(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if strings.HasPrefix(ref, "http") {
		return ref, true
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref, true
	}

	origin := r.Origin
	if origin == "" {
		origin = DefaultOrigin
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(ref, "/"), true
}

// ResolveImageURL resolves ref against DefaultOrigin. It returns "" when
// there is no image.
func ResolveImageURL(ref string) string {
	u, _ := Resolver{Origin: DefaultOrigin}.Resolve(ref)
	return u
}
