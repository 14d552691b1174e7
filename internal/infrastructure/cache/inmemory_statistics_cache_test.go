package cache

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStatisticsCache(t *testing.T) {
	ctx := context.Background()

	sample := &inventory.InventoryStatistics{
		TotalUnits:      3,
		NearExpiryCount: 1,
		GeneratedAt:     time.Now(),
	}

	t.Run("empty cache misses", func(t *testing.T) {
		c := NewInMemoryStatisticsCache()
		got, err := c.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		c := NewInMemoryStatisticsCache()
		require.NoError(t, c.Set(ctx, sample, time.Minute))

		got, err := c.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 3, got.TotalUnits)
	})

	t.Run("expired entry misses", func(t *testing.T) {
		c := NewInMemoryStatisticsCache()
		require.NoError(t, c.Set(ctx, sample, -time.Second))

		got, err := c.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewInMemoryStatisticsCache()
		require.NoError(t, c.Set(ctx, sample, time.Minute))
		require.NoError(t, c.Invalidate(ctx))

		got, err := c.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("caller mutations do not leak into the cache", func(t *testing.T) {
		c := NewInMemoryStatisticsCache()
		require.NoError(t, c.Set(ctx, sample, time.Minute))

		got, err := c.Get(ctx)
		require.NoError(t, err)
		got.TotalUnits = 99

		again, err := c.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, again.TotalUnits)
	})
}
