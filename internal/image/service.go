package image

import (
	"maps"
	"math"
	"strconv"
	"strings"
)

// Source is the image a transform starts from. Width and Height are the
// intrinsic dimensions when the source metadata is known.
type Source struct {
	URL    string
	Width  int
	Height int
}

// Transform is a single image render request from the host pipeline.
type Transform struct {
	Src        Source
	Width      int
	Height     int
	Widths     []int
	Densities  []float64
	Format     string
	Quality    *int
	Fit        string
	Position   string
	Options    Options
	Attributes map[string]string
}

// ServiceConfig is the per-deployment configuration of the proxy service.
type ServiceConfig struct {
	BaseURL        string `yaml:"base_url"`
	ImageOrigin    string `yaml:"image_origin"`
	DefaultQuality int    `yaml:"default_quality"`
	DefaultFormat  string `yaml:"default_format"`
}

// SrcSetEntry is one responsive candidate produced by GetSrcSet. The host
// turns Transform into a URL with GetURL.
type SrcSetEntry struct {
	Transform  Transform
	Descriptor string
	Attributes map[string]string
}

// ExternalService is the contract a rendering host drives for every image:
// ValidateOptions, then GetURL, GetHTMLAttributes and GetSrcSet. None of the
// stages perform I/O.
type ExternalService interface {
	ValidateOptions(t Transform, cfg ServiceConfig) (Transform, error)
	GetURL(t Transform, cfg ServiceConfig) string
	GetHTMLAttributes(t Transform) map[string]string
	GetSrcSet(t Transform) []SrcSetEntry
}

// WsrvService implements ExternalService on top of the wsrv.nl proxy.
type WsrvService struct{}

var _ ExternalService = WsrvService{}

func (WsrvService) ValidateOptions(t Transform, cfg ServiceConfig) (Transform, error) {
	if t.Src.URL == "" {
		return Transform{}, &ConfigurationError{Field: "src", Err: ErrMissingSource}
	}
	if !supportedSource(t.Src.URL) {
		return Transform{}, &ConfigurationError{Field: "src", Reason: t.Src.URL, Err: ErrUnsupportedSource}
	}

	if t.Quality == nil {
		q := cfg.DefaultQuality
		if q == 0 {
			q = DefaultQuality
		}
		t.Quality = Int(q)
	}
	if t.Format == "" {
		t.Format = cfg.DefaultFormat
		if t.Format == "" {
			t.Format = DefaultFormat
		}
	}
	t.Width, t.Height = pickDimensions(t)
	return t, nil
}

func (WsrvService) GetURL(t Transform, cfg ServiceConfig) string {
	b := NewBuilder(cfg.BaseURL, cfg.ImageOrigin)

	o := t.Options
	o.Width = t.Width
	o.Height = t.Height
	if t.Quality != nil {
		o.Quality = t.Quality
	}
	if t.Format != "" {
		o.Output = t.Format
	}
	if t.Fit != "" {
		o.Fit = t.Fit
	}
	if t.Position != "" {
		o.Align = t.Position
	}

	u, _ := b.URL(t.Src.URL, o)
	return u
}

// GetHTMLAttributes drops the fields only the proxy understands and applies
// lazy loading and async decoding unless the caller set them.
func (WsrvService) GetHTMLAttributes(t Transform) map[string]string {
	attrs := make(map[string]string, len(t.Attributes)+4)
	maps.Copy(attrs, t.Attributes)
	if t.Width > 0 {
		attrs["width"] = strconv.Itoa(t.Width)
	}
	if t.Height > 0 {
		attrs["height"] = strconv.Itoa(t.Height)
	}
	if attrs["loading"] == "" {
		attrs["loading"] = "lazy"
	}
	if attrs["decoding"] == "" {
		attrs["decoding"] = "async"
	}
	return attrs
}

// GetSrcSet returns width candidates when Widths is set, otherwise density
// candidates when Densities is set. Without dimensions it returns nil and the
// host renders a single image.
func (WsrvService) GetSrcSet(t Transform) []SrcSetEntry {
	if t.Width <= 0 || t.Height <= 0 {
		return nil
	}

	format := t.Format
	if format == "" {
		format = DefaultFormat
	}
	attributes := func() map[string]string {
		return map[string]string{"type": "image/" + format}
	}

	if widths := uniqueWidths(t.Widths); len(widths) > 0 {
		aspect := aspectRatio(t.Width, t.Height)
		out := make([]SrcSetEntry, 0, len(widths))
		for _, w := range widths {
			out = append(out, SrcSetEntry{
				Transform:  scaled(t, w, heightFor(w, aspect)),
				Descriptor: strconv.Itoa(w) + "w",
				Attributes: attributes(),
			})
		}
		return out
	}

	var out []SrcSetEntry
	seen := make(map[float64]struct{}, len(t.Densities))
	for _, d := range t.Densities {
		if d <= 0 {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		w := int(math.Round(float64(t.Width) * d))
		h := int(math.Round(float64(t.Height) * d))
		out = append(out, SrcSetEntry{
			Transform:  scaled(t, w, h),
			Descriptor: formatFloat(d) + "x",
			Attributes: attributes(),
		})
	}
	return out
}

// Rendered is the result of running a transform through every stage.
type Rendered struct {
	Src        string            `json:"src"`
	SrcSet     string            `json:"srcset,omitempty"`
	Entries    []VariantURL      `json:"entries,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// Render drives svc through its stages in order for a single image.
func Render(svc ExternalService, t Transform, cfg ServiceConfig) (Rendered, error) {
	t, err := svc.ValidateOptions(t, cfg)
	if err != nil {
		return Rendered{}, err
	}

	r := Rendered{
		Src:        svc.GetURL(t, cfg),
		Attributes: svc.GetHTMLAttributes(t),
	}
	for _, e := range svc.GetSrcSet(t) {
		r.Entries = append(r.Entries, VariantURL{
			URL:        svc.GetURL(e.Transform, cfg),
			Width:      e.Transform.Width,
			Height:     e.Transform.Height,
			Descriptor: e.Descriptor,
		})
	}
	r.SrcSet = SrcSetAttr(r.Entries)
	return r, nil
}

// scaled copies t for one candidate, without the candidate lists.
func scaled(t Transform, width, height int) Transform {
	t.Widths = nil
	t.Densities = nil
	t.Width = width
	t.Height = height
	return t
}

// pickDimensions keeps explicit dimensions and fills missing ones from the
// intrinsic size of the source.
func pickDimensions(t Transform) (int, int) {
	w, h := t.Width, t.Height
	if w > 0 && h > 0 {
		return w, h
	}
	sw, sh := t.Src.Width, t.Src.Height
	if sw <= 0 || sh <= 0 {
		return w, h
	}
	switch {
	case w > 0:
		return w, heightFor(w, aspectRatio(sw, sh))
	case h > 0:
		return int(math.Round(float64(h) * aspectRatio(sw, sh))), h
	default:
		return sw, sh
	}
}

// supportedSource accepts http(s) URLs, protocol-relative URLs and paths.
// Only a reference that opens with an explicit non-http scheme, such as
// data: or file:, is rejected.
func supportedSource(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	scheme, ok := leadingScheme(ref)
	if !ok {
		return true
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	}
	return false
}

// leadingScheme returns the RFC 3986 scheme of ref when one ends before the
// first "/". A single letter is treated as a path, not a scheme.
func leadingScheme(ref string) (string, bool) {
	for i := 0; i < len(ref); i++ {
		ch := ref[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case i > 0 && (ch >= '0' && ch <= '9' || ch == '+' || ch == '-' || ch == '.'):
		case ch == ':' && i > 1:
			return ref[:i], true
		default:
			return "", false
		}
	}
	return "", false
}
