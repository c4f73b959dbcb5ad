package cache

import (
	"sync"
	"time"
)

// CacheEntry represents a cached URL with expiration
type CacheEntry struct {
	URL        string
	ExpiryTime time.Time
}

// URLCache keeps presigned media URLs until shortly before they expire so
// listings do not re-sign every object on every request.
type URLCache struct {
	cache map[string]CacheEntry
	mutex sync.RWMutex
	now   func() time.Time
}

func NewURLCache() *URLCache {
	return &URLCache{
		cache: make(map[string]CacheEntry),
		now:   time.Now,
	}
}

// Get retrieves a URL from cache if not expired
func (c *URLCache) Get(key string) (string, bool) {
	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.ExpiryTime) {
		return entry.URL, true
	}

	return "", false
}

// Set stores a URL in cache with expiration time
func (c *URLCache) Set(key string, url string, expiry time.Time) {
	c.mutex.Lock()
	c.cache[key] = CacheEntry{
		URL:        url,
		ExpiryTime: expiry,
	}
	c.mutex.Unlock()
}

// Delete drops a key, used when the object is removed.
func (c *URLCache) Delete(key string) {
	c.mutex.Lock()
	delete(c.cache, key)
	c.mutex.Unlock()
}

// Prune removes expired entries from cache
func (c *URLCache) Prune() {
	now := c.now()
	c.mutex.Lock()
	for key, entry := range c.cache {
		if now.After(entry.ExpiryTime) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}

func (c *URLCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cache)
}
