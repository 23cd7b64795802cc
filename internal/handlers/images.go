package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muandane/special-stack/phimgate/internal/image"
)

// Query keys the image handlers read themselves. Every other proxy key in
// the request is passed through unchanged.
var handledKeys = map[string]bool{
	"w": true, "h": true, "q": true, "output": true, "fit": true, "a": true,
}

// Query keys copied into the HTML attribute map.
var attributeKeys = []string{"alt", "class", "loading", "decoding", "fetchpriority"}

type ImageHandler struct {
	svc     image.ExternalService
	cfg     image.ServiceConfig
	builder *image.Builder
	logger  *slog.Logger
}

func NewImageHandler(svc image.ExternalService, cfg image.ServiceConfig, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		svc:     svc,
		cfg:     cfg,
		builder: image.NewBuilder(cfg.BaseURL, cfg.ImageOrigin),
		logger:  logger,
	}
}

// URL handles GET /api/images/url.
func (h *ImageHandler) URL(c *gin.Context) {
	t, err := parseTransform(c)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	t, err = h.svc.ValidateOptions(t, h.cfg)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.svc.GetURL(t, h.cfg)})
}

// SrcSet handles GET /api/images/srcset, either for a named preset or for
// explicit widths and densities.
func (h *ImageHandler) SrcSet(c *gin.Context) {
	t, err := parseTransform(c)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	var sizes string
	if name := c.Query("preset"); name != "" {
		p, ok := image.LookupPreset(name)
		if !ok {
			handleError(c, h.logger, &ValidationError{
				Field:   "preset",
				Message: "unknown preset, expected one of " + strings.Join(image.PresetNames(), ", "),
			})
			return
		}
		t = applyPreset(t, p)
		sizes = p.Sizes
	}
	if s := c.Query("sizes"); s != "" {
		sizes = s
	}

	r, err := image.Render(h.svc, t, h.cfg)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"src":     r.Src,
		"srcset":  r.SrcSet,
		"sizes":   sizes,
		"entries": r.Entries,
	})
}

// Attributes handles GET /api/images/attributes and returns everything an
// <img> tag needs.
func (h *ImageHandler) Attributes(c *gin.Context) {
	t, err := parseTransform(c)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	r, err := image.Render(h.svc, t, h.cfg)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	attrs := r.Attributes
	attrs["src"] = r.Src
	if r.SrcSet != "" {
		attrs["srcset"] = r.SrcSet
	}
	c.JSON(http.StatusOK, attrs)
}

// Picture handles GET /api/images/picture/:preset.
func (h *ImageHandler) Picture(c *gin.Context) {
	p, ok := image.LookupPreset(c.Param("preset"))
	if !ok {
		handleError(c, h.logger, &NotFoundError{Resource: "preset", ID: c.Param("preset")})
		return
	}
	pic, ok := h.builder.Picture(p, c.Query("src"))
	if !ok {
		handleError(c, h.logger, &ValidationError{Field: "src", Message: "source is required"})
		return
	}
	c.JSON(http.StatusOK, pic)
}

func applyPreset(t image.Transform, p image.Preset) image.Transform {
	if t.Width == 0 && t.Height == 0 {
		t.Width, t.Height = p.Width, p.Height
	}
	if len(t.Widths) == 0 && len(t.Densities) == 0 {
		t.Widths = p.Widths
	}
	if t.Quality == nil {
		t.Quality = image.Int(p.Quality)
	}
	return t
}

func parseTransform(c *gin.Context) (image.Transform, error) {
	var (
		t   image.Transform
		err error
	)
	t.Src.URL = c.Query("src")
	if t.Src.Width, err = queryInt(c, "src_w"); err != nil {
		return t, err
	}
	if t.Src.Height, err = queryInt(c, "src_h"); err != nil {
		return t, err
	}
	if t.Width, err = queryInt(c, "w"); err != nil {
		return t, err
	}
	if t.Height, err = queryInt(c, "h"); err != nil {
		return t, err
	}
	if v := c.Query("q"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return t, &ValidationError{Field: "q", Message: "quality must be an integer between 1 and 100"}
		}
		t.Quality = image.Int(q)
	}
	if t.Widths, err = queryInts(c, "widths"); err != nil {
		return t, err
	}
	if t.Densities, err = queryFloats(c, "densities"); err != nil {
		return t, err
	}

	t.Format = c.Query("output")
	t.Fit = c.Query("fit")
	t.Position = c.Query("a")

	extra := make(map[string]string)
	query := c.Request.URL.Query()
	for _, key := range image.Keys() {
		if handledKeys[key] {
			continue
		}
		if v := query.Get(key); v != "" {
			extra[key] = v
		}
	}
	if len(extra) > 0 {
		t.Options.Extra = extra
	}

	for _, key := range attributeKeys {
		if v := c.Query(key); v != "" {
			if t.Attributes == nil {
				t.Attributes = make(map[string]string)
			}
			t.Attributes[key] = v
		}
	}
	return t, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &ValidationError{Field: key, Message: "must be a non-negative integer"}
	}
	return n, nil
}

func queryInts(c *gin.Context, key string) ([]int, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, &ValidationError{Field: key, Message: "must be a comma separated list of positive integers"}
		}
		out = append(out, n)
	}
	return out, nil
}

func queryFloats(c *gin.Context, key string) ([]float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(v, ",") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(part), "x"), 64)
		if err != nil || f <= 0 {
			return nil, &ValidationError{Field: key, Message: "must be a comma separated list of positive numbers"}
		}
		out = append(out, f)
	}
	return out, nil
}
