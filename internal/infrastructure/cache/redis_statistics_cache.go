package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appinv "github.com/bloodbank/backend/internal/application/inventory"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const statisticsKey = "inventory:statistics"

// RedisStatisticsCache caches the computed stock report in Redis so repeated
// dashboard reads do not rescan the whole blood_units table.
type RedisStatisticsCache struct {
	client *redis.Client
	key    string
}

// NewRedisStatisticsCache connects to Redis and returns a statistics cache
func NewRedisStatisticsCache(cfg config.RedisConfig) (*RedisStatisticsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStatisticsCache{client: client, key: statisticsKey}, nil
}

// NewRedisStatisticsCacheWithClient creates a cache with an existing Redis client
func NewRedisStatisticsCacheWithClient(client *redis.Client, key string) *RedisStatisticsCache {
	if key == "" {
		key = statisticsKey
	}
	return &RedisStatisticsCache{client: client, key: key}
}

// Get returns the cached report, or nil on a miss
func (c *RedisStatisticsCache) Get(ctx context.Context) (*inventory.InventoryStatistics, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read statistics cache: %w", err)
	}

	var stats inventory.InventoryStatistics
	if err := json.Unmarshal(payload, &stats); err != nil {
		// A corrupt entry is treated as a miss
		return nil, nil
	}
	return &stats, nil
}

// Set stores the report with a TTL
func (c *RedisStatisticsCache) Set(ctx context.Context, stats *inventory.InventoryStatistics, ttl time.Duration) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write statistics cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached report
func (c *RedisStatisticsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate statistics cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisStatisticsCache) Close() error {
	return c.client.Close()
}

// Ensure RedisStatisticsCache implements StatisticsCache
var _ appinv.StatisticsCache = (*RedisStatisticsCache)(nil)
