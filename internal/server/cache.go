package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// cacheEntry holds a parsed tree with the time it was read.
type cacheEntry struct {
	elements  []model.Element
	timestamp time.Time
}

// TreeCache is a TTL cache of parsed page source, keyed by read options.
type TreeCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time

	hits, misses int
}

// NewTreeCache creates a cache. A ttl of 0 disables caching.
func NewTreeCache(ttl time.Duration) *TreeCache {
	return &TreeCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(opts platform.ReadOptions) string {
	bbox := ""
	if opts.BBox != nil {
		bbox = fmt.Sprint(opts.BBox.Array())
	}
	return fmt.Sprintf("%s|%s|%d|%d|%s|%t|%s|%s|%t|%t",
		opts.Window, opts.WindowRID, opts.PID, opts.Depth,
		strings.Join(opts.Roles, ","), opts.VisibleOnly, bbox, opts.Text, opts.Focused, opts.Prune)
}

// ReadElements returns the cached tree for opts if it is younger than the
// TTL, otherwise reads through r.
func (c *TreeCache) ReadElements(ctx context.Context, r platform.Reader, opts platform.ReadOptions) ([]model.Element, error) {
	if c.ttl <= 0 {
		return r.ReadElements(ctx, opts)
	}
	key := cacheKey(opts)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		c.hits++
		c.mu.Unlock()
		return entry.elements, nil
	}
	c.misses++
	c.mu.Unlock()

	elements, err := r.ReadElements(ctx, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{elements: elements, timestamp: c.now()}
	c.mu.Unlock()
	return elements, nil
}

// InvalidateAll clears the cache.
func (c *TreeCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Stats returns the hit and miss counts.
func (c *TreeCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Wrap returns a Reader whose ReadElements goes through the cache.
func (c *TreeCache) Wrap(r platform.Reader) platform.Reader {
	return &cachedReader{Reader: r, cache: c}
}

type cachedReader struct {
	platform.Reader
	cache *TreeCache
}

func (r *cachedReader) ReadElements(ctx context.Context, opts platform.ReadOptions) ([]model.Element, error) {
	return r.cache.ReadElements(ctx, r.Reader, opts)
}
