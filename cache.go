package blogfront

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eringen/blogfront/content"
)

// maxCacheEntries bounds the cache; keys come from URL parameters.
const maxCacheEntries = 1024

// ContentCache is an in-memory cache in front of a content.Provider. Each
// distinct request is cached for ttl; failed requests are not cached.
// Expired entries are dropped on lookup and by Sweep.
type ContentCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	src     content.Provider
	now     func() time.Time
}

type cacheEntry struct {
	value   any
	fetched time.Time
}

var _ content.Provider = (*ContentCache)(nil)

// NewContentCache wraps src. A ttl of zero disables caching.
func NewContentCache(src content.Provider, ttl time.Duration) *ContentCache {
	return &ContentCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		src:     src,
		now:     time.Now,
	}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached responses, fresh or stale.
func (c *ContentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ContentCache) expired(e cacheEntry, now time.Time) bool {
	return now.Sub(e.fetched) >= c.ttl
}

func (c *ContentCache) lookup(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.expired(e, c.now()) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && c.expired(cur, c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *ContentCache) store(key string, v any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= maxCacheEntries {
		c.sweepLocked(now)
		if len(c.entries) >= maxCacheEntries {
			return
		}
	}
	c.entries[key] = cacheEntry{value: v, fetched: now}
}

// Sweep drops expired entries and returns how many were removed.
func (c *ContentCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

func (c *ContentCache) sweepLocked(now time.Time) int {
	n := 0
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep every interval. Returns a stop function.
func (c *ContentCache) StartSweeper(interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// cached returns the cached value for key or loads and stores it.
func cached[T any](c *ContentCache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		return v.(T), nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.store(key, v)
	return v, nil
}

func cacheKey(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case string:
			s[i] = v
		case int:
			s[i] = strconv.Itoa(v)
		}
	}
	return strings.Join(s, "\x00")
}

// ListPosts returns a page of posts.
func (c *ContentCache) ListPosts(ctx context.Context, page, pageSize int) (content.Page, error) {
	return cached(c, cacheKey("posts", page, pageSize), func() (content.Page, error) {
		return c.src.ListPosts(ctx, page, pageSize)
	})
}

// ListCategoryPosts returns a page of posts in a category.
func (c *ContentCache) ListCategoryPosts(ctx context.Context, slug string, page, pageSize int) (content.Page, error) {
	return cached(c, cacheKey("category", slug, page, pageSize), func() (content.Page, error) {
		return c.src.ListCategoryPosts(ctx, slug, page, pageSize)
	})
}

// ListTagPosts returns a page of posts with a tag.
func (c *ContentCache) ListTagPosts(ctx context.Context, slug string, page, pageSize int) (content.Page, error) {
	return cached(c, cacheKey("tag", slug, page, pageSize), func() (content.Page, error) {
		return c.src.ListTagPosts(ctx, slug, page, pageSize)
	})
}

// GetPost returns a single post.
func (c *ContentCache) GetPost(ctx context.Context, slug string) (content.Post, error) {
	return cached(c, cacheKey("post", slug), func() (content.Post, error) {
		return c.src.GetPost(ctx, slug)
	})
}

// ListCategories returns every category.
func (c *ContentCache) ListCategories(ctx context.Context) ([]content.Category, error) {
	return cached(c, cacheKey("categories"), func() ([]content.Category, error) {
		return c.src.ListCategories(ctx)
	})
}

// SitemapXML returns the upstream sitemap document.
func (c *ContentCache) SitemapXML(ctx context.Context, baseURL string) (string, error) {
	return cached(c, cacheKey("sitemap", baseURL), func() (string, error) {
		return c.src.SitemapXML(ctx, baseURL)
	})
}

// missingKey is the provider used when no API key is configured. Every call
// fails with content.ErrMissingAPIKey.
type missingKey struct{}

func (missingKey) ListPosts(context.Context, int, int) (content.Page, error) {
	return content.Page{}, content.ErrMissingAPIKey
}

func (missingKey) ListCategoryPosts(context.Context, string, int, int) (content.Page, error) {
	return content.Page{}, content.ErrMissingAPIKey
}

func (missingKey) ListTagPosts(context.Context, string, int, int) (content.Page, error) {
	return content.Page{}, content.ErrMissingAPIKey
}

func (missingKey) GetPost(context.Context, string) (content.Post, error) {
	return content.Post{}, content.ErrMissingAPIKey
}

func (missingKey) ListCategories(context.Context) ([]content.Category, error) {
	return nil, content.ErrMissingAPIKey
}

func (missingKey) SitemapXML(context.Context, string) (string, error) {
	return "", content.ErrMissingAPIKey
}
