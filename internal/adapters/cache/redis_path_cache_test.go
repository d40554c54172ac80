package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
)

func TestRedisPathCacheRoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	c := NewRedisPathCache(client, time.Hour)
	key := "1.000000,1.000000;2.000000,2.000000"
	path := orb.LineString{{1, 1}, {1.5, 1.2}, {2, 2}}

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, key, path); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists(redisKeyPrefix + key) {
		t.Fatal("key not stored with prefix")
	}

	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok || !got.Equal(path) {
		t.Fatalf("got %v ok=%v err=%v", got, ok, err)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatal("entry should have expired")
	}
}

func TestRedisPathCacheCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	if err := mr.Set(redisKeyPrefix+"bad", `{"type":"Point","coordinates":[1,2]}`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c := NewRedisPathCache(client, 0)
	if _, _, err := c.Get(context.Background(), "bad"); err == nil {
		t.Fatal("expected error for non-LineString geometry")
	}
}
