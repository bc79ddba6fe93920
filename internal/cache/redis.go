package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/amazon-product-cards/internal/models"
)

const redisKeyPrefix = "amazon_product:"

// RedisClient is the narrow slice of go-redis this backend needs,
// kept as an interface for testing.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache stores JSON-encoded product records under a prefixed ASIN key,
// delegating expiry to Redis via SET EX.
type RedisCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisCache(client RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, asin string) (*models.Product, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+asin).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// A corrupt entry is unusable; treat it as a miss so the caller
		// refetches and overwrites it.
		return nil, ErrMiss
	}

	return &product, nil
}

func (c *RedisCache) Put(ctx context.Context, asin string, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+asin, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, asin string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+asin).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
