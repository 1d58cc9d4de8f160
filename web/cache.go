package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/s0up4200/reelgrid/lru"
	"github.com/s0up4200/reelgrid/movieapi"
)

// DetailCache stores full movie records for the hover endpoint
type DetailCache interface {
	Get(ctx context.Context, id string) (*movieapi.Movie, bool, error)
	Set(ctx context.Context, id string, movie *movieapi.Movie) error
}

// MemoryCache is an in-process LRU detail cache
type MemoryCache struct {
	items *lru.Cache[string, movieapi.Movie]
}

// NewMemoryCache creates a cache holding up to size records for ttl
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{items: lru.New[string, movieapi.Movie](size, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, id string) (*movieapi.Movie, bool, error) {
	m, ok := c.items.Get(id)
	if !ok {
		return nil, false, nil
	}
	return &m, true, nil
}

func (c *MemoryCache) Set(_ context.Context, id string, movie *movieapi.Movie) error {
	if movie == nil {
		return nil
	}
	c.items.Put(id, *movie)
	return nil
}

const redisKeyPrefix = "reelgrid:movie:"

// RedisCache shares detail records between server instances
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the server at redisURL, e.g.
// redis://localhost:6379/0, and verifies the connection
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, id string) (*movieapi.Movie, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var movie movieapi.Movie
	if err := json.Unmarshal(data, &movie); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached movie %s: %w", id, err)
	}
	return &movie, true, nil
}

func (c *RedisCache) Set(ctx context.Context, id string, movie *movieapi.Movie) error {
	if movie == nil {
		return nil
	}
	data, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("failed to encode movie %s: %w", id, err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+id, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
