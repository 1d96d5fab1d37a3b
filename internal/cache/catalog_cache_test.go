package cache

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
)

type countingCatalog struct {
	repositories.CatalogRepository
	roomCalls int
}

func (c *countingCatalog) ListRooms(ctx context.Context) ([]models.Room, error) {
	c.roomCalls++
	return c.CatalogRepository.ListRooms(ctx)
}

func redisForTest(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := NewRedisClient(context.Background(), addr)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCatalogCacheReadThrough(t *testing.T) {
	rdb := redisForTest(t)
	ctx := context.Background()

	inner := &countingCatalog{CatalogRepository: repositories.NewSeededCatalog(time.Now())}
	c := NewCatalogCache(inner, rdb, time.Minute)
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	first, err := c.ListRooms(ctx)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := c.ListRooms(ctx)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if inner.roomCalls != 1 {
		t.Fatalf("expected one load from the wrapped catalog, got %d", inner.roomCalls)
	}
	if len(first) != len(second) || first[0].ID != second[0].ID || first[0].Price != second[0].Price {
		t.Fatalf("cached rooms differ from loaded rooms")
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := c.ListRooms(ctx); err != nil {
		t.Fatalf("list after invalidate: %v", err)
	}
	if inner.roomCalls != 2 {
		t.Fatalf("expected reload after invalidate, got %d loads", inner.roomCalls)
	}
}

func TestCatalogCacheDisabledPassesThrough(t *testing.T) {
	inner := &countingCatalog{CatalogRepository: repositories.NewSeededCatalog(time.Now())}
	c := NewCatalogCache(inner, nil, 0)

	for i := 0; i < 3; i++ {
		if _, err := c.ListRooms(context.Background()); err != nil {
			t.Fatalf("list: %v", err)
		}
	}
	if inner.roomCalls != 3 {
		t.Fatalf("expected every call to reach the wrapped catalog, got %d", inner.roomCalls)
	}
}
