// ABOUTME: In-memory cache in front of an ImageExporter, keyed by sha256 of the DOT text and format.
// ABOUTME: Supports TTL expiry, pruning of expired entries, concurrent access, and hit/miss hooks.
package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// RenderFunc adapts a plain function to the ImageExporter interface.
type RenderFunc func(ctx context.Context, dotText string, format string) ([]byte, error)

// Export implements ImageExporter.
func (f RenderFunc) Export(ctx context.Context, dotText string, format string) ([]byte, error) {
	return f(ctx, dotText, format)
}

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// RenderCache wraps an ImageExporter with an in-memory cache. Errors are
// never cached. RenderCache is itself an ImageExporter.
type RenderCache struct {
	next    ImageExporter
	ttl     time.Duration
	entries map[string]*cacheEntry
	mu      sync.RWMutex

	// OnLookup, when set, is called with true on a hit and false on a miss.
	OnLookup func(hit bool)
}

// NewRenderCache creates a RenderCache in front of next. Entries expire after ttl.
func NewRenderCache(next ImageExporter, ttl time.Duration) *RenderCache {
	return &RenderCache{
		next:    next,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
	}
}

// Export returns the cached rendering of dotText when present and fresh,
// rendering and storing it otherwise. Callers own the returned bytes.
func (c *RenderCache) Export(ctx context.Context, dotText string, format string) ([]byte, error) {
	key := cacheKey(dotText, format)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok && time.Since(entry.createdAt) < c.ttl {
		data := bytes.Clone(entry.data)
		c.mu.RUnlock()
		c.observe(true)
		return data, nil
	}
	c.mu.RUnlock()
	c.observe(false)

	data, err := c.next.Export(ctx, dotText, format)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{data: bytes.Clone(data), createdAt: time.Now()}
	c.mu.Unlock()

	return data, nil
}

func (c *RenderCache) observe(hit bool) {
	if c.OnLookup != nil {
		c.OnLookup(hit)
	}
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops expired entries and returns how many were removed.
func (c *RenderCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if time.Since(e.createdAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear removes all entries from the cache.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// cacheKey combines the sha256 of the DOT text with the output format.
func cacheKey(dotText string, format string) string {
	return fmt.Sprintf("%x:%s", sha256.Sum256([]byte(dotText)), format)
}
