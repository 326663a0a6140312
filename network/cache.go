package network

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultFreshness applies to entries without max-age or Expires.
const defaultFreshness = 5 * time.Minute

// CacheEntry represents a cached HTTP response.
type CacheEntry struct {
	Response  *Response
	ETag      string
	MaxAge    time.Duration
	HasMaxAge bool // max-age was present, including max-age=0
	Expires   time.Time
	CachedAt  time.Time
}

// IsExpired returns true if the cache entry is no longer fresh.
func (e *CacheEntry) IsExpired() bool {
	if e.HasMaxAge {
		return time.Since(e.CachedAt) >= e.MaxAge
	}
	if !e.Expires.IsZero() {
		return time.Now().After(e.Expires)
	}
	return time.Since(e.CachedAt) > defaultFreshness
}

// Cache provides in-memory HTTP caching keyed by URL. It is safe for
// concurrent use.
type Cache struct {
	entries map[string]*CacheEntry
	maxSize int
	mu      sync.RWMutex
}

// NewCache creates a new cache with the specified maximum number of entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves a cached entry, expired or not.
func (c *Cache) Get(url string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[url]
	return entry, ok
}

// Fresh returns the cached response for url if it has not expired.
func (c *Cache) Fresh(url string) (*Response, bool) {
	entry, ok := c.Get(url)
	if !ok || entry.IsExpired() {
		return nil, false
	}
	return entry.Response, true
}

// Set stores a response in the cache, honoring Cache-Control no-store and
// max-age and the Expires header. It returns false if the response was not
// stored.
func (c *Cache) Set(url string, resp *Response) bool {
	cacheControl := resp.Headers.Get("Cache-Control")
	directives := splitDirectives(cacheControl)
	if directives["no-store"] != nil {
		return false
	}

	entry := &CacheEntry{
		Response: resp,
		CachedAt: time.Now(),
		ETag:     resp.Headers.Get("ETag"),
	}
	if v := directives["max-age"]; v != nil {
		if seconds, err := strconv.Atoi(*v); err == nil && seconds >= 0 {
			entry.MaxAge = time.Duration(seconds) * time.Second
			entry.HasMaxAge = true
		}
	}
	if !entry.HasMaxAge {
		if expires := resp.Headers.Get("Expires"); expires != "" {
			if t, err := http.ParseTime(expires); err == nil {
				entry.Expires = t
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[url] = entry
	return true
}

// Delete removes an entry from the cache.
func (c *Cache) Delete(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
}

// Size returns the number of entries in the cache.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes all expired entries from the cache.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, entry := range c.entries {
		if entry.IsExpired() {
			delete(c.entries, url)
		}
	}
}

// evictOldest removes the oldest entry. Must be called with c.mu held.
func (c *Cache) evictOldest() {
	var oldestURL string
	var oldestTime time.Time
	for url, entry := range c.entries {
		if oldestURL == "" || entry.CachedAt.Before(oldestTime) {
			oldestURL = url
			oldestTime = entry.CachedAt
		}
	}
	if oldestURL != "" {
		delete(c.entries, oldestURL)
	}
}

// splitDirectives parses a Cache-Control value into a directive map.
// Directives without an argument map to a pointer to "".
func splitDirectives(value string) map[string]*string {
	result := make(map[string]*string)
	for _, d := range strings.Split(value, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, arg, _ := strings.Cut(d, "=")
		arg = strings.Trim(strings.TrimSpace(arg), `"`)
		result[strings.ToLower(strings.TrimSpace(name))] = &arg
	}
	return result
}
