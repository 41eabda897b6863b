package qrcode

import (
	"sync"

	"docvault/config"
	"docvault/internal/domain/service"

	"github.com/golang/groupcache/lru"
)

// lruImageCache is a size-bounded, goroutine-safe image cache.
type lruImageCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewImageCache returns an LRU cache holding at most maxEntries images.
func NewImageCache(maxEntries int) service.ImageCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}

	return &lruImageCache{cache: lru.New(maxEntries)}
}

func (c *lruImageCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	image, ok := value.([]byte)

	return image, ok
}

func (c *lruImageCache) Add(key string, image []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(key, image)
}

func (c *lruImageCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(key)
}

func (c *lruImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cache.Len()
}

// NewCache builds the image cache from the qrcode config section.
func NewCache(cfg *config.Config) service.ImageCache {
	return NewImageCache(cfg.QRCode.CacheSize)
}
