package image

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		ref    string
		want   string
		wantOK bool
	}{
		{name: "empty reference", origin: DefaultOrigin, ref: "", want: "", wantOK: false},
		{name: "absolute https", origin: DefaultOrigin, ref: "https://cdn.example.com/a.jpg", want: "https://cdn.example.com/a.jpg", wantOK: true},
		{name: "absolute http", origin: DefaultOrigin, ref: "http://cdn.example.com/a.jpg", want: "http://cdn.example.com/a.jpg", wantOK: true},
		{name: "protocol relative", origin: DefaultOrigin, ref: "//cdn.example.com/a.jpg", want: "https://cdn.example.com/a.jpg", wantOK: true},
		{name: "leading slash", origin: "https://phimimg.com/", ref: "/upload/film.jpg", want: "https://phimimg.com/upload/film.jpg", wantOK: true},
		{name: "origin without slash", origin: "https://phimimg.com", ref: "upload/film.jpg", want: "https://phimimg.com/upload/film.jpg", wantOK: true},
		{name: "origin with many slashes", origin: "https://phimimg.com//", ref: "/upload/film.jpg", want: "https://phimimg.com/upload/film.jpg", wantOK: true},
		{name: "empty origin uses default", origin: "", ref: "upload/film.jpg", want: "https://phimimg.com/upload/film.jpg", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolver{Origin: tt.origin}.Resolve(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolverAbsoluteIsIdempotent(t *testing.T) {
	r := NewResolver("https://other.example/")
	for _, ref := range []string{
		"https://phimimg.com/upload/film.jpg",
		"http://a.b/c?d=e",
		"https://x.y/z%20w.png",
	} {
		once, _ := r.Resolve(ref)
		twice, _ := r.Resolve(once)
		assert.Equal(t, ref, once)
		assert.Equal(t, once, twice)
	}
}

func TestResolverSingleSlashJoin(t *testing.T) {
	origins := []string{"https://img.example", "https://img.example/", "https://img.example///"}
	paths := []string{"poster.jpg", "/poster.jpg"}
	for _, o := range origins {
		for _, p := range paths {
			got, ok := NewResolver(o).Resolve(p)
			assert.True(t, ok)
			rest := strings.TrimPrefix(got, "https://img.example")
			assert.Equal(t, "/poster.jpg", rest, "origin %q path %q", o, p)
		}
	}
}

func TestResolveImageURL(t *testing.T) {
	assert.Equal(t, "", ResolveImageURL(""))
	assert.Equal(t, "https://phimimg.com/upload/a.jpg", ResolveImageURL("upload/a.jpg"))
}
