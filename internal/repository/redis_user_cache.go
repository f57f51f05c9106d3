package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// RedisUserCache implements domain.UserCache. Users are stored as JSON under
// "user:<id>" with a TTL chosen by the caller.
type RedisUserCache struct {
	client *redis.Client
}

func NewRedisUserCache(client *redis.Client) *RedisUserCache {
	return &RedisUserCache{client: client}
}

func (c *RedisUserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	user := &domain.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return user, nil
}

func (c *RedisUserCache) Set(ctx context.Context, user *domain.User, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, userKey(user.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}
	return nil
}

func (c *RedisUserCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, userKey(id)).Err()
}

func userKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}
