package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearXMLMERGEEnv clears all XMLMERGE_* env vars to isolate tests from the ambient environment.
func clearXMLMERGEEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"XMLMERGE_CACHE_ENABLED", "XMLMERGE_CACHE_MAX_SIZE",
		"XMLMERGE_CACHE_FILE_TTL", "XMLMERGE_CACHE_CONTENT_TTL",
		"XMLMERGE_CACHE_SWEEP_INTERVAL",
		"XMLMERGE_PROPERTIES", "XMLMERGE_STRATEGY", "XMLMERGE_ORDER",
		"XMLMERGE_KEYS_LIMIT", "XMLMERGE_MAX_LIMIT", "XMLMERGE_MAX_INLINE_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearXMLMERGEEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, []string{"id"}, c.Properties)
	assert.Empty(t, c.Strategy)
	assert.Empty(t, c.Order)
	assert.Equal(t, 100, c.KeysLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearXMLMERGEEnv(t)
	t.Setenv("XMLMERGE_CACHE_ENABLED", "false")
	t.Setenv("XMLMERGE_CACHE_FILE_TTL", "1m")
	t.Setenv("XMLMERGE_PROPERTIES", " sku, @lang ,,")
	t.Setenv("XMLMERGE_STRATEGY", "accept-left")
	t.Setenv("XMLMERGE_ORDER", "grouped")
	t.Setenv("XMLMERGE_KEYS_LIMIT", "5")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, time.Minute, c.CacheFileTTL)
	assert.Equal(t, []string{"sku", "@lang"}, c.Properties)
	assert.Equal(t, "accept-left", c.Strategy)
	assert.Equal(t, "grouped", c.Order)
	assert.Equal(t, 5, c.KeysLimit)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearXMLMERGEEnv(t)
	t.Setenv("XMLMERGE_CACHE_ENABLED", "maybe")
	t.Setenv("XMLMERGE_CACHE_MAX_SIZE", "-3")
	t.Setenv("XMLMERGE_CACHE_CONTENT_TTL", "soon")
	t.Setenv("XMLMERGE_PROPERTIES", " , ")
	t.Setenv("XMLMERGE_STRATEGY", "fail")
	t.Setenv("XMLMERGE_ORDER", "sorted")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, []string{"id"}, c.Properties)
	assert.Empty(t, c.Strategy)
	assert.Empty(t, c.Order)
}
