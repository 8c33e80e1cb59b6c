package cache

import (
	"context"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a bounded in-process cache. When full, the oldest inserted
// key is evicted. A zero TTL never expires entries.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	order      []string
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries outcomes.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry, maxEntries),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns a decoded copy of the stored outcome.
func (c *MemoryCache) Get(_ context.Context, key string) (*models.RunOutcome, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		c.remove(key)
		c.mu.Unlock()
		return nil, false, nil
	}

	outcome, err := decode(entry.data)
	if err != nil {
		return nil, false, err
	}
	return outcome, true, nil
}

// Set stores an encoded copy of the outcome.
func (c *MemoryCache) Set(_ context.Context, key string, outcome *models.RunOutcome) error {
	data, err := encode(outcome)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.maxEntries {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// remove must be called with the write lock held.
func (c *MemoryCache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
