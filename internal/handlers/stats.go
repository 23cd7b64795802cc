package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/muandane/special-stack/phimgate/internal/cache"
)

// StatsSource is implemented by cache.Store.
type StatsSource interface {
	Stats() cache.Stats
}

type CacheStats struct {
	cache.Stats
	CacheHitRatio float64   `json:"cache_hit_ratio"`
	Uptime        string    `json:"uptime"`
	StartedAt     time.Time `json:"started_at"`
}

type StatsHandler struct {
	source  StatsSource
	started time.Time
}

func NewStatsHandler(source StatsSource) *StatsHandler {
	return &StatsHandler{
		source:  source,
		started: time.Now(),
	}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := h.source.Stats()
	resp := CacheStats{
		Stats:         s,
		CacheHitRatio: s.HitRatio(),
		Uptime:        time.Since(h.started).Truncate(time.Second).String(),
		StartedAt:     h.started.UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(resp)
}
