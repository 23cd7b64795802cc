package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type HealthHandler struct {
	logger           *slog.Logger
	catalogAvailable func() bool
}

// NewHealthHandler reports liveness. catalogAvailable may be nil.
func NewHealthHandler(logger *slog.Logger, catalogAvailable func() bool) *HealthHandler {
	return &HealthHandler{
		logger:           logger,
		catalogAvailable: catalogAvailable,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	configured := h.catalogAvailable != nil && h.catalogAvailable()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(map[string]any{
		"status":             "healthy",
		"catalog_configured": configured,
	})

	h.logger.Debug("health check completed",
		"duration", time.Since(start).String(),
		"remote_addr", r.RemoteAddr,
	)
}
