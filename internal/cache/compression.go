package cache

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var compressibleTypes = []string{
	"text/",
	"application/json",
	"application/javascript",
	"application/xml",
	"image/svg",
}

// ShouldCompress reports whether a body of this type and size is worth gzipping.
func ShouldCompress(contentType string, size int) bool {
	if size < MinSizeForCompression {
		return false
	}
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// Payload is an encoded response body with an optional gzip variant.
type Payload struct {
	ContentType string
	Body        []byte
	Gzipped     []byte
}

// NewPayload prepares body for serving. The gzip variant is kept only when
// it is smaller than the original.
func NewPayload(contentType string, body []byte) Payload {
	p := Payload{ContentType: contentType, Body: body}
	if !ShouldCompress(contentType, len(body)) {
		return p
	}
	if gz, err := Gzip(body); err == nil && len(gz) < len(body) {
		p.Gzipped = gz
	}
	return p
}

// Negotiate picks the body for a request's Accept-Encoding header and
// returns the Content-Encoding to send with it ("" for identity).
func (p Payload) Negotiate(acceptEncoding string) ([]byte, string) {
	if p.Gzipped != nil && strings.Contains(acceptEncoding, "gzip") {
		return p.Gzipped, "gzip"
	}
	return p.Body, ""
}

// Gzip compresses data.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Gunzip reverses Gzip.
func Gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
