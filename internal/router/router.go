package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muandane/special-stack/phimgate/internal/handlers"
	"github.com/muandane/special-stack/phimgate/internal/middleware"
)

// Dependencies are the handlers the router mounts.
type Dependencies struct {
	Images         *handlers.ImageHandler
	Catalog        *handlers.CatalogHandler
	Health         http.Handler
	CacheStats     handlers.StatsSource
	CacheRules     []middleware.CacheRule
	// DisableMetrics leaves out the request metrics middleware and /metrics.
	DisableMetrics bool
}

type Router struct {
	engine *gin.Engine
	logger *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		engine: gin.New(),
		logger: logger,
	}
}

func (r *Router) Setup(deps Dependencies) http.Handler {
	var withMetrics middleware.Middleware
	if !deps.DisableMetrics {
		metricsMiddleware := middleware.NewMetricsMiddleware()
		r.engine.GET("/metrics", gin.WrapH(metricsMiddleware))
		withMetrics = metricsMiddleware.WithMetrics
	}

	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler(r.logger, nil)
	}

	r.engine.GET("/health", gin.WrapH(health))
	if deps.CacheStats != nil {
		r.engine.GET("/stats", gin.WrapH(handlers.NewStatsHandler(deps.CacheStats)))
	}

	api := r.engine.Group("/api")
	if deps.Images != nil {
		images := api.Group("/images")
		images.GET("/url", deps.Images.URL)
		images.GET("/srcset", deps.Images.SrcSet)
		images.GET("/attributes", deps.Images.Attributes)
		images.GET("/picture/:preset", deps.Images.Picture)
	}
	if deps.Catalog != nil {
		api.GET("/sections/:typeList", deps.Catalog.Section)
		api.POST("/sections", deps.Catalog.Sections)
		api.GET("/movies/:slug", deps.Catalog.Movie)
		api.GET("/search", deps.Catalog.Search)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Error:   "no route for " + c.Request.URL.Path,
			Code:    http.StatusNotFound,
			Message: "resource not found",
		})
	})

	rules := deps.CacheRules
	if rules == nil {
		rules = middleware.DefaultCacheRules()
	}

	// Apply middleware chain, innermost first.
	return middleware.Chain(
		r.engine,
		middleware.WithCachePolicy(rules),
		middleware.WithSecurityHeaders,
		withMetrics,
		middleware.WithRecovery(r.logger),
		middleware.WithLogging(r.logger),
		middleware.WithRequestID,
	)
}
