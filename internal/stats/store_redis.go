// Copyright (c) 2026 Inkwell. All rights reserved.

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/constants"
)

// RedisCache implements Cache with JSON-encoded snapshots under the stats
// key prefix.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

const (
	overviewKey = constants.RedisPrefixStats + "overview"
	activityKey = constants.RedisPrefixStats + "activity"
)

func (cache *RedisCache) GetOverview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}
	if err := cache.get(ctx, overviewKey, overview); err != nil {
		return nil, err
	}
	return overview, nil
}

func (cache *RedisCache) SetOverview(ctx context.Context, overview *Overview, ttl time.Duration) error {
	return cache.set(ctx, overviewKey, overview, ttl)
}

func (cache *RedisCache) GetActivity(ctx context.Context) ([]ActivityItem, error) {
	items := make([]ActivityItem, 0)
	if err := cache.get(ctx, activityKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (cache *RedisCache) SetActivity(ctx context.Context, items []ActivityItem, ttl time.Duration) error {
	return cache.set(ctx, activityKey, items, ttl)
}

func (cache *RedisCache) get(ctx context.Context, key string, target any) error {
	payload, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("cached snapshot")
		}
		return fmt.Errorf("redis_stats_get_failed: %w", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("redis_stats_decode_failed: %w", err)
	}
	return nil
}

func (cache *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_stats_encode_failed: %w", err)
	}
	if err := cache.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_stats_set_failed: %w", err)
	}
	return nil
}
