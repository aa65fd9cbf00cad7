package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skinpricer/internal/domain"

	"github.com/redis/go-redis/v9"
)

// InventoryCache keeps recently priced inventories for a short time.
type InventoryCache interface {
	// Get returns the cached items and whether they were present.
	Get(ctx context.Context, steamID string) ([]domain.EnrichedItem, bool, error)
	Set(ctx context.Context, steamID string, items []domain.EnrichedItem) error
}

type redisInventoryCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisInventoryCache(redisClient *redis.Client, ttl time.Duration) InventoryCache {
	return &redisInventoryCache{
		redisClient: redisClient,
		keyPrefix:   "skinpricer:inventory:",
		ttl:         ttl,
	}
}

func (c *redisInventoryCache) Get(ctx context.Context, steamID string) ([]domain.EnrichedItem, bool, error) {
	key := c.keyPrefix + steamID
	val, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached inventory %s: %w", steamID, err)
	}

	var items []domain.EnrichedItem
	if err := json.Unmarshal(val, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached inventory %s: %w", steamID, err)
	}

	return items, true, nil
}

func (c *redisInventoryCache) Set(ctx context.Context, steamID string, items []domain.EnrichedItem) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode inventory %s: %w", steamID, err)
	}

	key := c.keyPrefix + steamID
	if err := c.redisClient.Set(ctx, key, blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache inventory %s: %w", steamID, err)
	}
	return nil
}

// Noop is used when no cache is configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, steamID string) ([]domain.EnrichedItem, bool, error) {
	return nil, false, nil
}

func (Noop) Set(ctx context.Context, steamID string, items []domain.EnrichedItem) error {
	return nil
}
