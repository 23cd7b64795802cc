package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/muandane/special-stack/phimgate/internal/cache"
	"github.com/muandane/special-stack/phimgate/internal/image"
)

const (
	maxBodySize    = 8 << 20
	maxConcurrency = 8
)

// defaultListParams are merged under caller params for listing endpoints.
var defaultListParams = map[string]string{
	"page":      "1",
	"sort_type": "desc",
	"limit":     "10",
}

// Config holds the upstream settings.
type Config struct {
	BaseURL      string
	ImageOrigin  string
	Timeout      time.Duration
	RateInterval time.Duration
	RateBurst    int
}

// Client reads the upstream catalog API through the response cache.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	cache      cache.ResponseCache
	limiter    *rate.Limiter
	group      singleflight.Group
	resolver   image.Resolver
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client. An empty BaseURL is allowed; every call then fails
// with ErrNotConfigured.
func New(cfg Config, store cache.ResponseCache, logger *slog.Logger, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("response cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	limit := rate.Inf
	if cfg.RateInterval > 0 {
		limit = rate.Every(cfg.RateInterval)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		timeout:    cfg.Timeout,
		cache:      store,
		limiter:    rate.NewLimiter(limit, cfg.RateBurst),
		resolver:   image.NewResolver(cfg.ImageOrigin),
		logger:     logger.With("component", "catalog"),
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog base URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid catalog base URL %q: scheme and host are required", cfg.BaseURL)
		}
		c.baseURL = u
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Configured reports whether an upstream base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != nil
}

// FetchSection returns one listing page for req.
func (c *Client) FetchSection(ctx context.Context, req SectionRequest) (*Page, error) {
	if c.baseURL == nil {
		return nil, ErrNotConfigured
	}
	if req.TypeList == "" {
		return nil, fmt.Errorf("type list is required")
	}
	endpoint := c.endpoint("/v1/api/danh-sach/"+req.TypeList, mergeParams(defaultListParams, req.Params))
	return c.fetchPage(ctx, endpoint, cache.SectionData)
}

// Section is FetchSection for rendering paths: failures are reported in the
// Error field with an empty item list.
func (c *Client) Section(ctx context.Context, req SectionRequest) SectionResponse {
	page, err := c.FetchSection(ctx, req)
	if err != nil {
		c.logger.Warn("section fetch failed",
			"key", req.Key,
			"type_list", req.TypeList,
			"error", err,
		)
		return SectionResponse{Key: req.Key, Items: []Item{}, Error: err.Error()}
	}
	return SectionResponse{Key: req.Key, Items: page.Items, TotalPages: page.TotalPages}
}

// Sections fetches every request concurrently. Results keep request order
// and a failed section never fails the batch.
func (c *Client) Sections(ctx context.Context, reqs []SectionRequest) BatchedResponse {
	out := make([]SectionResponse, len(reqs))

	var g errgroup.Group
	g.SetLimit(maxConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			out[i] = c.Section(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return BatchedResponse{Sections: out}
}

// Search returns listing results for keyword.
func (c *Client) Search(ctx context.Context, keyword string, params map[string]string) (*Page, error) {
	if c.baseURL == nil {
		return nil, ErrNotConfigured
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	merged := mergeParams(map[string]string{"page": "1", "limit": "10"}, params)
	merged["keyword"] = keyword
	return c.fetchPage(ctx, c.endpoint("/v1/api/tim-kiem", merged), cache.SearchResults)
}

// Movie returns the detail payload for slug.
func (c *Client) Movie(ctx context.Context, slug string) (*MovieDetail, error) {
	if c.baseURL == nil {
		return nil, ErrNotConfigured
	}
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}
	endpoint := c.endpoint("/phim/"+slug, nil)

	return cached(c, ctx, endpoint, cache.MovieDetail, func(ctx context.Context) (*MovieDetail, error) {
		var env detailEnvelope
		if err := c.getJSON(ctx, endpoint, cache.MovieDetail, &env); err != nil {
			return nil, err
		}
		if !env.Status || env.Movie.Slug == "" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		c.resolveItem(&env.Movie.Item)
		return &MovieDetail{Movie: env.Movie, Episodes: env.Episodes}, nil
	})
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, profile cache.Profile) (*Page, error) {
	return cached(c, ctx, endpoint, profile, func(ctx context.Context) (*Page, error) {
		var env listEnvelope
		if err := c.getJSON(ctx, endpoint, profile, &env); err != nil {
			return nil, err
		}
		page := &Page{
			Items:      env.Data.Items,
			TotalPages: env.Data.Params.Pagination.TotalPages,
		}
		if page.Items == nil {
			page.Items = []Item{}
		}
		if page.TotalPages < 1 {
			page.TotalPages = 1
		}
		for i := range page.Items {
			c.resolveItem(&page.Items[i])
		}
		return page, nil
	})
}

// cached serves key from the response cache, loading it at most once at a
// time per key on a miss. Only successful loads are stored. The shared load
// is detached from any single caller and bounded by the client timeout; each
// caller stops waiting when its own context ends.
func cached[T any](c *Client, ctx context.Context, key string, profile cache.Profile, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := cache.GetAs[T](c.cache, key); ok {
		c.logger.Debug("cache hit", "key", key)
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := cache.GetAs[T](c.cache, key); ok {
			return v, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		c.logger.Debug("cache miss, fetching from upstream", "key", key)
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, v, profile.TTL())
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			c.logger.Debug("coalesced upstream fetch", "key", key)
		}
		return res.Val.(T), nil
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, profile cache.Profile, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	cache.Apply(req.Header, cache.Headers(profile))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream response",
		"url", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, &StatusError{Code: resp.StatusCode, URL: endpoint})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// endpoint resolves path against the base URL. Query keys are sorted, so
// the result doubles as the cache key.
func (c *Client) endpoint(path string, params map[string]string) string {
	ref := &url.URL{Path: path}
	if len(params) > 0 {
		q := make(url.Values, len(params))
		for k, v := range params {
			q.Set(k, v)
		}
		ref.RawQuery = q.Encode()
	}
	return c.baseURL.ResolveReference(ref).String()
}

func (c *Client) resolveItem(it *Item) {
	if u, ok := c.resolver.Resolve(it.PosterURL); ok {
		it.PosterURL = u
	}
	if u, ok := c.resolver.Resolve(it.ThumbURL); ok {
		it.ThumbURL = u
	}
}

func mergeParams(defaults, params map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(params))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range params {
		out[k] = v
	}
	return out
}
