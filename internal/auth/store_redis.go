// Copyright (c) 2026 Inkwell. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/constants"
)

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
// Expiry is delegated to the key TTL, so there is no sweeper to run.
type RedisResetTokenRepository struct {
	client *redis.Client
}

func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func resetTokenKey(token string) string {
	return constants.RedisPrefixResetToken + token
}

func (repository *RedisResetTokenRepository) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := repository.client.Set(ctx, resetTokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}
	return nil
}

func (repository *RedisResetTokenRepository) Get(ctx context.Context, token string) (string, error) {
	userID, err := repository.client.Get(ctx, resetTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token is invalid or expired")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}
	return userID, nil
}

func (repository *RedisResetTokenRepository) Delete(ctx context.Context, token string) error {
	if err := repository.client.Del(ctx, resetTokenKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}
	return nil
}
