package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/muandane/special-stack/phimgate/internal/cache"
	"github.com/muandane/special-stack/phimgate/internal/catalog"
	"github.com/muandane/special-stack/phimgate/internal/config"
	"github.com/muandane/special-stack/phimgate/internal/handlers"
	"github.com/muandane/special-stack/phimgate/internal/image"
	"github.com/muandane/special-stack/phimgate/internal/router"
)

func main() {
	cfg, err := config.Load()
	if cfg == nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	gin.SetMode(cfg.Server.GinMode)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := cache.NewStore()

	client, err := catalog.New(catalog.Config{
		BaseURL:      cfg.Catalog.BaseURL,
		ImageOrigin:  cfg.Image.ImageOrigin,
		Timeout:      cfg.Catalog.Timeout,
		RateInterval: cfg.Catalog.RateInterval,
		RateBurst:    cfg.Catalog.RateBurst,
	}, store, logger)
	if err != nil {
		return err
	}
	if !client.Configured() {
		logger.Warn("PUBLIC_PHIM_MOI is not set, catalog routes will report errors")
	}

	handler := router.NewRouter(logger).Setup(router.Dependencies{
		Images:     handlers.NewImageHandler(image.WsrvService{}, cfg.Image, logger),
		Catalog:    handlers.NewCatalogHandler(client, logger),
		Health:     handlers.NewHealthHandler(logger, client.Configured),
		CacheStats: store,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
