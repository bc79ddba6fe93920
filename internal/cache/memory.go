package cache

import (
	"context"
	"sync"
	"time"

	"github.com/maltedev/amazon-product-cards/internal/models"
)

type memoryEntry struct {
	product   models.Product
	expiresAt time.Time
}

// MemoryCache is the default in-process backend: an RWMutex-guarded map with
// per-entry expiry. Expired entries are treated as misses on read and pruned
// lazily; there is no background janitor.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	now func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, asin string) (*models.Product, error) {
	c.mu.RLock()
	entry, exists := c.entries[asin]
	c.mu.RUnlock()

	if !exists {
		return nil, ErrMiss
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the entry in the meantime.
		if cur, ok := c.entries[asin]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, asin)
		}
		c.mu.Unlock()
		return nil, ErrMiss
	}

	product := entry.product
	return &product, nil
}

func (c *MemoryCache) Put(_ context.Context, asin string, product *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[asin] = memoryEntry{
		product:   *product,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, asin string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, asin)
	return nil
}

// Len reports the number of stored entries, including not-yet-pruned
// expired ones.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
