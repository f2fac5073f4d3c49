package embedding

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCacheWithClient(client, 0)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	want := []float32{0.25, -1.5, 3.125, 0}
	c.Set(ctx, "some chunk text", want)

	got, ok := c.Get(ctx, "some chunk text")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != len(want) {
		t.Fatalf("vector length got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRedisCache_MissReturnsFalse(t *testing.T) {
	c := newTestRedisCache(t)

	if _, ok := c.Get(context.Background(), "never stored"); ok {
		t.Error("expected cache miss")
	}
}

func TestRedisCache_KeyedByExactText(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	c.Set(ctx, "text one", []float32{1})
	if _, ok := c.Get(ctx, "text one "); ok {
		t.Error("trailing whitespace must be a different key")
	}
}

func TestRedisCache_Purge(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	c.Set(ctx, "a", []float32{1})
	c.Set(ctx, "b", []float32{2})
	c.Purge(ctx)

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("entry a survived purge")
	}
	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("entry b survived purge")
	}
}
