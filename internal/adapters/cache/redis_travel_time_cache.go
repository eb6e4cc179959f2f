package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"transport-roadmap-service/internal/domain"
)

// RedisTravelTimeCache stores travel times in Redis with a TTL, so a
// shared instance can serve repeated optimization runs across processes
// while stale road conditions eventually age out.
type RedisTravelTimeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTravelTimeCache(client *redis.Client, ttl time.Duration) *RedisTravelTimeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisTravelTimeCache{client: client, ttl: ttl}
}

func (c *RedisTravelTimeCache) Get(ctx context.Context, origin, destination domain.Coordinate) (int, bool, error) {
	val, err := c.client.Get(ctx, redisKey(origin, destination)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis travel time cache: get: %w", err)
	}

	seconds, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("redis travel time cache: corrupt value %q: %w", val, err)
	}
	return seconds, true, nil
}

func (c *RedisTravelTimeCache) Put(ctx context.Context, origin, destination domain.Coordinate, seconds int) error {
	if err := c.client.Set(ctx, redisKey(origin, destination), strconv.Itoa(seconds), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis travel time cache: put: %w", err)
	}
	return nil
}

func redisKey(origin, destination domain.Coordinate) string {
	return fmt.Sprintf("traveltime:%s|%s", coordKey(origin), coordKey(destination))
}
