// Package config provides centralized configuration for herogen.
// All configurable values are loaded from environment variables with sensible defaults.
package config

import (
	"bufio"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEnvFile is the optional dotenv file read by Load.
const DefaultEnvFile = ".env.local"

// Config holds all herogen configuration values.
type Config struct {
	// OpenAIKey is the API key for the image service. Empty is a valid,
	// expected state and selects the basic placeholder.
	OpenAIKey string

	// OpenAIBaseURL is the API root (default: https://api.openai.com/v1).
	OpenAIBaseURL string

	// OpenAIImageModel is the image model; empty uses the service default.
	OpenAIImageModel string

	// PublicDir is the public-assets directory artifacts are written to.
	PublicDir string

	// HistoryDB is the SQLite path for run history. Empty disables history.
	HistoryDB string

	// HistoryLimit is how many runs the history command lists by default.
	HistoryLimit int

	// HTTPTimeout bounds outgoing requests. Zero keeps the platform default.
	HTTPTimeout time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Port is the listen port of the preview server.
	Port string

	// CORSOrigin is the allowed CORS origin of the preview server.
	CORSOrigin string
}

// Load reads configuration from environment variables, applying defaults.
// Values from .env.local are used only for variables not already set.
func Load() Config {
	loadEnvFile(DefaultEnvFile)
	return Config{
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIImageModel: os.Getenv("OPENAI_IMAGE_MODEL"),
		PublicDir:        envOr("PUBLIC_DIR", "public"),
		HistoryDB:        os.Getenv("HISTORY_DB"),
		HistoryLimit:     envInt("HISTORY_LIMIT", 20),
		HTTPTimeout:      envDuration("HTTP_TIMEOUT", 0),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		Port:             envOr("PORT", "8080"),
		CORSOrigin:       envOr("CORS_ORIGIN", "*"),
	}
}

// HasCredential reports whether an image service key is configured.
// The key itself is not validated.
func (c Config) HasCredential() bool {
	return c.OpenAIKey != ""
}

// HistoryEnabled reports whether runs should be recorded.
func (c Config) HistoryEnabled() bool {
	return c.HistoryDB != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// LogValue implements slog.LogValuer. The key is reported only as present or absent.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("credential", c.HasCredential()),
		slog.String("base_url", c.OpenAIBaseURL),
		slog.String("image_model", c.OpenAIImageModel),
		slog.String("public_dir", c.PublicDir),
		slog.String("history_db", c.HistoryDB),
		slog.Duration("http_timeout", c.HTTPTimeout),
	)
}

// loadEnvFile sets KEY=VALUE pairs from path for keys not already present in
// the environment. A missing file is not an error.
func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.Trim(strings.TrimSpace(v), `"'`)
		if _, exists := os.LookupEnv(k); !exists {
			os.Setenv(k, v)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
