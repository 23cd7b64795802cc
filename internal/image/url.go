package image

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the public wsrv.nl endpoint. The source URL is appended
// directly after it.
const DefaultBaseURL = "https://wsrv.nl/?url="

// Builder composes proxy URLs from a source reference and Options.
type Builder struct {
	BaseURL  string
	Resolver Resolver
}

// NewBuilder returns a Builder for baseURL and origin, using the package
// defaults for empty values.
func NewBuilder(baseURL, origin string) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{BaseURL: baseURL, Resolver: NewResolver(origin)}
}

// URL returns the proxied URL for src. The result is a pure function of its
// inputs, so it is safe to use as a cache key. It reports false when src is
// empty.
func (b *Builder) URL(src string, o Options) (string, bool) {
	source, ok := b.Resolver.Resolve(src)
	if !ok {
		return "", false
	}
	return b.join(source, EncodeParams(o.withDefaults())), true
}

// join assembles base, source and query. The separator is "&" when the base
// already carries a query and "?" otherwise.
func (b *Builder) join(source, query string) string {
	base := b.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(escapeComponent(source))
	if query != "" {
		if strings.Contains(base, "?") {
			sb.WriteByte('&')
		} else {
			sb.WriteByte('?')
		}
		sb.WriteString(query)
	}
	return sb.String()
}

// escapeComponent percent-encodes s the way encodeURIComponent does, which
// keeps the characters !'()* literal and encodes spaces as %20.
func escapeComponent(s string) string {
	escaped := url.QueryEscape(s)
	return componentReplacer.Replace(escaped)
}

var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
