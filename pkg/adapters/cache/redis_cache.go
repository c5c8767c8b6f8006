package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

const keyPrefix = "smartlink:"

// RedisCache stores resolved smart-link payloads as JSON with a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SmartLinkCache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Open parses a redis:// URL and checks the connection
func Open(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	c := NewRedisCache(redis.NewClient(opts), ttl)
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *RedisCache) Get(ctx context.Context, slug string) (*domain.SmartLinksPayload, error) {
	data, err := c.client.Get(ctx, keyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var payload domain.SmartLinksPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *RedisCache) Set(ctx context.Context, slug string, payload *domain.SmartLinksPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+slug, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, slug string) error {
	return c.client.Del(ctx, keyPrefix+slug).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
