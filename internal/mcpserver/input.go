package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/xmlmerge/document"
	"github.com/minio/highwayhash"
)

// xmlInput represents the two ways an XML document can be provided to a tool.
// Exactly one of File or Content must be set.
type xmlInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an XML file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline XML document content"`
}

// cacheEntry holds a cached parse result with LRU ordering and TTL expiry.
type cacheEntry struct {
	result    *document.ParseResult
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore provides a session-scoped cache for parsed documents.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a HighwayHash of the content. Cached documents are shared between
// calls; tools only read them.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var docCache = &docCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) *document.ParseResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.result
	}
	return nil
}

// putWithTTL stores a result with a specific TTL, evicting the oldest entry if at capacity.
func (c *docCacheStore) putWithTTL(key string, result *document.ParseResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{result: result, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// contentHashKey is the fixed HighwayHash key for content cache keys.
var contentHashKey = []byte("xmlmerge-mcp-content-cache-key!!")

// makeCacheKey creates a cache key for the given input. An empty key means
// the input is not cacheable.
func makeCacheKey(s xmlInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h, err := highwayhash.New64(contentHashKey)
		if err != nil {
			return ""
		}
		_, _ = h.Write([]byte(s.Content))
		return "content:" + strconv.FormatUint(h.Sum64(), 16) + ":" + strconv.Itoa(len(s.Content))
	default:
		return ""
	}
}

// resolve parses the document from whichever input was provided, using the
// cache when enabled. Documents loaded with preserveWhitespace are cached
// separately.
func (s xmlInput) resolve(ctx context.Context, preserveWhitespace bool) (*document.ParseResult, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set XMLMERGE_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
		if key != "" && preserveWhitespace {
			key += ":ws"
		}
		ttl = cfg.CacheContentTTL
		if s.File != "" {
			ttl = cfg.CacheFileTTL
		}
	}
	if key != "" {
		if cached := docCache.get(key); cached != nil {
			return cached, nil
		}
	}

	opts := []document.Option{
		document.WithContext(ctx),
		document.WithPreserveWhitespace(preserveWhitespace),
	}
	if s.File != "" {
		opts = append(opts, document.WithFilePath(s.File))
	} else {
		opts = append(opts, document.WithBytes([]byte(s.Content)), document.WithSourceName("content"))
	}
	result, err := document.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		docCache.putWithTTL(key, result, ttl)
	}
	return result, nil
}
