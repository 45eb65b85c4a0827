package cache

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/dto"
	"sync"
	"time"
)

type memoryEntry struct {
	tags      []dto.TagWithUsage
	expiresAt time.Time
}

// MemoryCache is a process-local UsageCache.
type MemoryCache struct {
	mu          sync.RWMutex
	ttl         time.Duration
	now         func() time.Time
	entries     map[entity.UserID]memoryEntry
	generations map[entity.UserID]uint64
}

// NewMemoryCache creates an empty cache. now is used for expiry.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		ttl:         ttl,
		now:         now,
		entries:     make(map[entity.UserID]memoryEntry),
		generations: make(map[entity.UserID]uint64),
	}
}

func (c *MemoryCache) Get(_ context.Context, userID entity.UserID) ([]dto.TagWithUsage, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, userID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return cloneTags(entry.tags), true, nil
}

func (c *MemoryCache) Generation(_ context.Context, userID entity.UserID) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[userID], nil
}

func (c *MemoryCache) Set(_ context.Context, userID entity.UserID, generation uint64, tags []dto.TagWithUsage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[userID] != generation {
		return nil
	}
	c.entries[userID] = memoryEntry{
		tags:      cloneTags(tags),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, userID entity.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
	delete(c.entries, userID)
	return nil
}

func cloneTags(tags []dto.TagWithUsage) []dto.TagWithUsage {
	out := make([]dto.TagWithUsage, len(tags))
	copy(out, tags)
	return out
}
