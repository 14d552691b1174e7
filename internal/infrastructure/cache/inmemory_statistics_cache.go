package cache

import (
	"context"
	"sync"
	"time"

	appinv "github.com/bloodbank/backend/internal/application/inventory"
	"github.com/bloodbank/backend/internal/domain/inventory"
)

// InMemoryStatisticsCache caches the stock report in process memory.
// Suitable for single-instance deployments and testing; distributed
// deployments should use RedisStatisticsCache so invalidation reaches
// every instance.
type InMemoryStatisticsCache struct {
	mu        sync.RWMutex
	stats     *inventory.InventoryStatistics
	expiresAt time.Time
}

// NewInMemoryStatisticsCache creates a new in-memory statistics cache
func NewInMemoryStatisticsCache() *InMemoryStatisticsCache {
	return &InMemoryStatisticsCache{}
}

// Get returns the cached report, or nil on a miss
func (c *InMemoryStatisticsCache) Get(_ context.Context) (*inventory.InventoryStatistics, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stats == nil || time.Now().After(c.expiresAt) {
		return nil, nil
	}
	out := *c.stats
	return &out, nil
}

// Set stores the report with a TTL
func (c *InMemoryStatisticsCache) Set(_ context.Context, stats *inventory.InventoryStatistics, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *stats
	c.stats = &copied
	c.expiresAt = time.Now().Add(ttl)
	return nil
}

// Invalidate drops the cached report
func (c *InMemoryStatisticsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = nil
	return nil
}

// Ensure InMemoryStatisticsCache implements StatisticsCache
var _ appinv.StatisticsCache = (*InMemoryStatisticsCache)(nil)
