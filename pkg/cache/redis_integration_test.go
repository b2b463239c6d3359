//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Requires a running Redis, e.g.:
//
//	docker run --rm -p 6379:6379 redis:7
//	REDIS_URL=redis://localhost:6379/0 go test -tags integration ./pkg/cache/
func redisURL(t *testing.T) string {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	return url
}

func TestRedisCache_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, redisURL(t))
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	key := "gridpack:test:" + Hash([]byte(t.Name()))

	// Miss before Set
	_, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Fatal("Get before Set should miss")
	}

	// Roundtrip
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(data) != "payload" {
		t.Errorf("Get returned %q, want %q", data, "payload")
	}

	// Delete
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, key)
	if hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisCacheTTL_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, redisURL(t))
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	key := "gridpack:test:" + Hash([]byte(t.Name()))
	if err := c.Set(ctx, key, []byte("short-lived"), time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	_, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("entry should have expired")
	}
}

func TestNewRedisCacheBadURL_Integration(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "not-a-url"); err == nil {
		t.Error("NewRedisCache should reject a malformed URL")
	}
}
