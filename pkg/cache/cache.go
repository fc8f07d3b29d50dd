// pkg/cache/cache.go
package cache

import (
	"sync"
	"time"
)

type Item[V any] struct {
	Value      V
	Expiration int64
}

// Cache is an in-process TTL map. Expired entries are invisible to readers
// and are swept by a background goroutine until Close is called.
type Cache[V any] struct {
	items map[string]Item[V]
	mu    sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

func New[V any](gcInterval time.Duration) *Cache[V] {
	c := &Cache[V]{
		items: make(map[string]Item[V]),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if gcInterval > 0 {
		go c.startGC(gcInterval)
	}
	return c
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Item[V]{
		Value:      value,
		Expiration: c.now().Add(ttl).UnixNano(),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || c.now().UnixNano() > item.Expiration {
		var zero V
		return zero, false
	}
	return item.Value, true
}

// GetOrSet returns the live value for key, creating it with create when
// absent or expired. Either way the entry's expiry is pushed out by ttl.
func (c *Cache[V]) GetOrSet(key string, ttl time.Duration, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	item, found := c.items[key]
	if !found || now.UnixNano() > item.Expiration {
		item.Value = create()
	}
	item.Expiration = now.Add(ttl).UnixNano()
	c.items[key] = item
	return item.Value
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Sweep drops every expired entry and reports how many were removed
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	removed := 0
	for k, v := range c.items {
		if now > v.Expiration {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[V]) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}
