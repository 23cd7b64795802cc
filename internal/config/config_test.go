package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PUBLIC_PHIM_MOI", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://wsrv.nl/?url=", cfg.Image.BaseURL)
	assert.Equal(t, "https://phimimg.com/", cfg.Image.ImageOrigin)
	assert.Equal(t, 80, cfg.Image.DefaultQuality)
	assert.Equal(t, "webp", cfg.Image.DefaultFormat)
	assert.Empty(t, cfg.Catalog.BaseURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("PUBLIC_PHIM_MOI", "https://phimapi.com")
	t.Setenv("IMAGE_DEFAULT_QUALITY", "65")
	t.Setenv("CATALOG_TIMEOUT", "3s")
	t.Setenv("CATALOG_RATE_BURST", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://phimapi.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 65, cfg.Image.DefaultQuality)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 9, cfg.Catalog.RateBurst)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("IMAGE_DEFAULT_QUALITY", "150")
	t.Setenv("CATALOG_TIMEOUT", "soon")
	t.Setenv("CATALOG_RATE_BURST", "many")

	cfg, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_TIMEOUT")
	assert.Contains(t, err.Error(), "CATALOG_RATE_BURST")
	assert.Contains(t, err.Error(), "IMAGE_DEFAULT_QUALITY")
	assert.Equal(t, 80, cfg.Image.DefaultQuality)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 5, cfg.Catalog.RateBurst)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
image:
  image_origin: "https://img.example/"
  default_format: avif
catalog:
  base_url: "https://file.example"
  timeout: 4s
log:
  level: debug
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("PUBLIC_PHIM_MOI", "https://env.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "https://img.example/", cfg.Image.ImageOrigin)
	assert.Equal(t, "avif", cfg.Image.DefaultFormat)
	assert.Equal(t, "https://wsrv.nl/?url=", cfg.Image.BaseURL, "unset file keys keep defaults")
	assert.Equal(t, "https://env.example", cfg.Catalog.BaseURL, "env wins over file")
	assert.Equal(t, 4*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LogConfig{Level: tt.level}.SlogLevel(), tt.level)
	}
}
