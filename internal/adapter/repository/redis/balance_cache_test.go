package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) *redislib.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestBalanceCacheSetAndGet(t *testing.T) {
	cache := NewBalanceCache(newTestRedisClient(t))
	ctx := context.Background()

	balances := map[string]int64{"m-alice": 2500, "m-bob": -2500}
	if err := cache.Set(ctx, "g1", 3, balances, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, hit, err := cache.Get(ctx, "g1", 3)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected cache hit")
	}
	if got["m-alice"] != 2500 || got["m-bob"] != -2500 {
		t.Fatalf("unexpected balances: %v", got)
	}
}

func TestBalanceCacheMissOnDifferentVersion(t *testing.T) {
	cache := NewBalanceCache(newTestRedisClient(t))
	ctx := context.Background()

	if err := cache.Set(ctx, "g1", 3, map[string]int64{"m-alice": 0}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A bumped version must miss the stale entry.
	_, hit, err := cache.Get(ctx, "g1", 4)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss for newer version")
	}
}

func TestBalanceCacheMissOnUnknownGroup(t *testing.T) {
	cache := NewBalanceCache(newTestRedisClient(t))

	_, hit, err := cache.Get(context.Background(), "missing", 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss")
	}
}
