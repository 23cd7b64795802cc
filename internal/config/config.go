package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muandane/special-stack/phimgate/internal/image"
)

type Config struct {
	Server  ServerConfig        `yaml:"server"`
	Image   image.ServiceConfig `yaml:"image"`
	Catalog CatalogConfig       `yaml:"catalog"`
	Log     LogConfig           `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	GinMode         string        `yaml:"gin_mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type CatalogConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	RateInterval time.Duration `yaml:"rate_interval"`
	RateBurst    int           `yaml:"rate_burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			GinMode:         "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Image: image.ServiceConfig{
			BaseURL:        image.DefaultBaseURL,
			ImageOrigin:    image.DefaultOrigin,
			DefaultQuality: image.DefaultQuality,
			DefaultFormat:  image.DefaultFormat,
		},
		Catalog: CatalogConfig{
			Timeout:      10 * time.Second,
			RateInterval: 100 * time.Millisecond,
			RateBurst:    5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE and the environment, in that order. Invalid environment
// values keep the previous value and are returned joined in the error.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	var errs []error
	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.GinMode = getEnv("GIN_MODE", cfg.Server.GinMode)
	cfg.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout, &errs)
	cfg.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout, &errs)
	cfg.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout, &errs)

	cfg.Image.BaseURL = getEnv("IMAGE_BASE_URL", cfg.Image.BaseURL)
	cfg.Image.ImageOrigin = getEnv("IMAGE_ORIGIN", cfg.Image.ImageOrigin)
	cfg.Image.DefaultQuality = getEnvInt("IMAGE_DEFAULT_QUALITY", cfg.Image.DefaultQuality, &errs)
	cfg.Image.DefaultFormat = getEnv("IMAGE_DEFAULT_FORMAT", cfg.Image.DefaultFormat)

	cfg.Catalog.BaseURL = getEnv("PUBLIC_PHIM_MOI", cfg.Catalog.BaseURL)
	cfg.Catalog.Timeout = getEnvDuration("CATALOG_TIMEOUT", cfg.Catalog.Timeout, &errs)
	cfg.Catalog.RateInterval = getEnvDuration("CATALOG_RATE_INTERVAL", cfg.Catalog.RateInterval, &errs)
	cfg.Catalog.RateBurst = getEnvInt("CATALOG_RATE_BURST", cfg.Catalog.RateBurst, &errs)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if q := cfg.Image.DefaultQuality; q < 0 || q > 100 {
		errs = append(errs, fmt.Errorf("IMAGE_DEFAULT_QUALITY must be between 0 and 100, got %d", q))
		cfg.Image.DefaultQuality = image.DefaultQuality
	}

	return cfg, errors.Join(errs...)
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger.
func (l LogConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.EqualFold(l.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return defaultValue
	}
	return d
}
