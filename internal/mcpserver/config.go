package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/xmlmerge/merger"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Merge tool defaults.
	Properties []string
	Strategy   string
	Order      string

	// Keys tool defaults.
	KeysLimit int
	MaxLimit  int

	// MaxInlineSize caps inline XML content in bytes.
	MaxInlineSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from XMLMERGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("XMLMERGE_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("XMLMERGE_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("XMLMERGE_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("XMLMERGE_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("XMLMERGE_CACHE_SWEEP_INTERVAL", 60*time.Second),
		Properties:         envList("XMLMERGE_PROPERTIES", []string{merger.DefaultProperty}),
		Strategy:           envEnum("XMLMERGE_STRATEGY", merger.IsValidStrategy),
		Order:              envEnum("XMLMERGE_ORDER", merger.IsValidOrderMode),
		KeysLimit:          envInt("XMLMERGE_KEYS_LIMIT", 100),
		MaxLimit:           envInt("XMLMERGE_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("XMLMERGE_MAX_INLINE_SIZE", 10*1024*1024)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// envList reads a comma-separated list. Blank items are dropped; a value
// with no items falls back to the default.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var items []string
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		slog.Warn("empty list env var, using default", "key", key, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return items
}

// envEnum returns the value when valid reports it acceptable, else "".
func envEnum(key string, valid func(string) bool) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	if !valid(v) {
		slog.Warn("invalid env var value, ignoring", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return ""
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
