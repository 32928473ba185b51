// Package cache is a small JSON value cache over Redis, used for the
// privilege catalog and the aggregated dashboard datasets.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys shared across services: mutations invalidate datasets other
// services own.
const (
	KeyPrivilegeCatalog = "privilege:catalog"
	KeyDashboardSummary = "dashboard:summary"
	KeyDashboardCharts  = "dashboard:charts"
)

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the cached value for key into out. Returns false on a miss;
// Redis errors also degrade to a miss so callers always have the fetch path.
func (c *Cache) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value for %s: %w", key, err)
	}
	return true, nil
}

// Set stores a value under key with a TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Invalidate drops one or more keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
