package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/seminarhub/backend/repository"
)

type cache struct {
	client *redislib.Client
	prefix string
}

// NewCache returns a Redis-backed byte cache used for the seminar listing.
func NewCache(client *redislib.Client) repository.Cache {
	return &cache{client: client, prefix: "cache:"}
}

func (c *cache) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == redislib.Nil {
			return nil, repository.ErrCacheMiss
		}
		return nil, err
	}
	return result, nil
}

func (c *cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
