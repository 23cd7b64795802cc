package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muandane/special-stack/phimgate/internal/cache"
	"github.com/muandane/special-stack/phimgate/internal/catalog"
)

// sectionFailure is the public message for a failed listing; details stay in the log.
const sectionFailure = "Failed to fetch data"

// maxBatch caps the number of sections one batched request may ask for.
const maxBatch = 24

// Catalog is the part of catalog.Client the handlers use.
type Catalog interface {
	FetchSection(ctx context.Context, req catalog.SectionRequest) (*catalog.Page, error)
	Sections(ctx context.Context, reqs []catalog.SectionRequest) catalog.BatchedResponse
	Movie(ctx context.Context, slug string) (*catalog.MovieDetail, error)
	Search(ctx context.Context, keyword string, params map[string]string) (*catalog.Page, error)
}

type CatalogHandler struct {
	catalog Catalog
	logger  *slog.Logger
}

func NewCatalogHandler(c Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, logger: logger}
}

// Section handles GET /api/sections/:typeList. Query parameters are passed
// to the upstream listing as-is.
func (h *CatalogHandler) Section(c *gin.Context) {
	req := catalog.SectionRequest{
		Key:      c.Param("typeList"),
		TypeList: c.Param("typeList"),
		Params:   queryParams(c),
	}

	page, err := h.catalog.FetchSection(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("section request failed",
			"type_list", req.TypeList,
			"error", err,
		)
		c.Header("Cache-Control", cache.NoStoreCacheControl)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": sectionFailure,
			"items": []catalog.Item{},
		})
		return
	}
	writeJSON(c, h.logger, http.StatusOK, page, cache.Headers(cache.SectionData), cache.CDNHeaders())
}

// Sections handles POST /api/sections with a JSON array of section requests.
func (h *CatalogHandler) Sections(c *gin.Context) {
	var reqs []catalog.SectionRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		handleError(c, h.logger, &ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if len(reqs) == 0 || len(reqs) > maxBatch {
		handleError(c, h.logger, &ValidationError{Field: "body", Message: "expected between 1 and 24 sections"})
		return
	}
	resp := h.catalog.Sections(c.Request.Context(), reqs)
	writeJSON(c, h.logger, http.StatusOK, resp, cache.Headers(cache.SectionData), cache.CDNHeaders())
}

// Movie handles GET /api/movies/:slug.
func (h *CatalogHandler) Movie(c *gin.Context) {
	slug := c.Param("slug")
	detail, err := h.catalog.Movie(c.Request.Context(), slug)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	writeJSON(c, h.logger, http.StatusOK, detail, cache.Headers(cache.MovieDetail), cache.CDNHeaders())
}

// Search handles GET /api/search?keyword=.
func (h *CatalogHandler) Search(c *gin.Context) {
	params := queryParams(c)
	keyword := params["keyword"]
	delete(params, "keyword")
	if keyword == "" {
		handleError(c, h.logger, &ValidationError{Field: "keyword", Message: "keyword is required"})
		return
	}

	page, err := h.catalog.Search(c.Request.Context(), keyword, params)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	writeJSON(c, h.logger, http.StatusOK, page, cache.Headers(cache.SearchResults))
}

func queryParams(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}
	return params
}

// writeJSON encodes v once and serves the gzip variant to clients that accept it.
func writeJSON(c *gin.Context, logger *slog.Logger, status int, v any, headers ...http.Header) {
	body, err := json.Marshal(v)
	if err != nil {
		sendError(c, logger, http.StatusInternalServerError, "failed to encode response", err)
		return
	}

	cache.Apply(c.Writer.Header(), headers...)

	payload := cache.NewPayload("application/json; charset=utf-8", body)
	out, encoding := payload.Negotiate(c.GetHeader("Accept-Encoding"))
	if encoding != "" {
		c.Header("Content-Encoding", encoding)
		c.Header("Vary", "Accept-Encoding")
	}
	c.Data(status, payload.ContentType, out)
}
