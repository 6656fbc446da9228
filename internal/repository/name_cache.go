package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const nameCachePrefix = "lostfound:user-name:"

// NameCache is an advisory cache of user display names keyed by user id.
type NameCache interface {
	GetNames(ctx context.Context, ids []string) (map[string]string, error)
	SetNames(ctx context.Context, names map[string]string) error
}

type redisNameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNameCache returns a NameCache backed by Redis string keys.
func NewRedisNameCache(client *redis.Client, ttl time.Duration) NameCache {
	return &redisNameCache{client: client, ttl: ttl}
}

func (c *redisNameCache) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = nameCachePrefix + id
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ids))
	for i, value := range values {
		if name, ok := value.(string); ok {
			names[ids[i]] = name
		}
	}
	return names, nil
}

func (c *redisNameCache) SetNames(ctx context.Context, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, name := range names {
			pipe.Set(ctx, nameCachePrefix+id, name, c.ttl)
		}
		return nil
	})
	return err
}
