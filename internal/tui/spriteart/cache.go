package spriteart

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache keeps rendered art keyed by sprite URL and size.
type Cache struct {
	c *gocache.Cache
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: gocache.New(ttl, 2*ttl)}
}

func key(url string, cols, rows int) string {
	return fmt.Sprintf("%s|%dx%d", url, cols, rows)
}

// Get returns cached art.
func (c *Cache) Get(url string, cols, rows int) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.c.Get(key(url, cols, rows))
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Put stores rendered art.
func (c *Cache) Put(url string, cols, rows int, art string) {
	if c == nil {
		return
	}
	c.c.SetDefault(key(url, cols, rows), art)
}

// Len returns the number of cached entries, expired ones included until
// the janitor runs.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.c.ItemCount()
}
