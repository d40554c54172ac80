package cache

import (
	"context"
	"errors"
	"fmt"
	"route-dashboard/internal/platform/obs"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "path:"

// RedisPathCache shares routed paths between dashboard instances.
// Entries expire after TTL; zero means no expiry.
type RedisPathCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPathCache(client *redis.Client, ttl time.Duration) *RedisPathCache {
	return &RedisPathCache{Client: client, TTL: ttl}
}

// Fetch the cached path for a waypoint key.
func (r *RedisPathCache) Get(ctx context.Context, key string) (_ orb.LineString, _ bool, err error) {
	defer obs.Time(ctx, "path.redis.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("path cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get path cache: key must not be empty")
	}

	s, err := r.Client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get path cache: redis get: %w", err)
	}

	path, err := decodePath(s)
	if err != nil {
		return nil, false, fmt.Errorf("get path cache key=%q: %w", key, err)
	}
	return path, true, nil
}

// Store a path with the configured TTL.
func (r *RedisPathCache) Put(ctx context.Context, key string, path orb.LineString) error {
	if r.Client == nil {
		return errors.New("path cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert path cache: empty waypoint key")
	}

	geometry, err := encodePath(path)
	if err != nil {
		return fmt.Errorf("insert path cache: %w", err)
	}

	if err := r.Client.Set(ctx, redisKeyPrefix+key, geometry, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert path cache key=%q: redis set: %w", key, err)
	}
	return nil
}
