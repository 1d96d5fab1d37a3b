package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
)

const keyPrefix = "catalog:"

// NewRedisClient connects to REDIS_URL, which may be a redis:// URL or a bare host:port.
func NewRedisClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	var opts *goredis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &goredis.Options{Addr: redisURL}
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// CatalogCache is a read-through redis cache in front of a CatalogRepository.
// Redis failures fall through to the wrapped repository.
type CatalogCache struct {
	inner repositories.CatalogRepository
	rdb   goredis.UniversalClient
	ttl   time.Duration
}

// NewCatalogCache wraps inner. A non-positive ttl disables caching.
func NewCatalogCache(inner repositories.CatalogRepository, rdb goredis.UniversalClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{inner: inner, rdb: rdb, ttl: ttl}
}

// Invalidate drops every cached catalog list.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func readThrough[T any](ctx context.Context, c *CatalogCache, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c.rdb == nil || c.ttl <= 0 {
		return load(ctx)
	}
	key := keyPrefix + name

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		log.Warn().Str("key", key).Msg("Discarding undecodable catalog cache entry")
	case !errors.Is(err, goredis.Nil):
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(items); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			log.Warn().Err(setErr).Str("key", key).Msg("Catalog cache write failed")
		}
	}
	return items, nil
}

func (c *CatalogCache) ListBranches(ctx context.Context) ([]models.Branch, error) {
	return readThrough(ctx, c, "branches", c.inner.ListBranches)
}

func (c *CatalogCache) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	return readThrough(ctx, c, "room_types", c.inner.ListRoomTypes)
}

func (c *CatalogCache) ListRooms(ctx context.Context) ([]models.Room, error) {
	return readThrough(ctx, c, "rooms", c.inner.ListRooms)
}

func (c *CatalogCache) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return readThrough(ctx, c, "menu_items", c.inner.ListMenuItems)
}

func (c *CatalogCache) ListEvents(ctx context.Context) ([]models.Event, error) {
	return readThrough(ctx, c, "events", c.inner.ListEvents)
}

func (c *CatalogCache) ListServices(ctx context.Context) ([]models.HotelService, error) {
	return readThrough(ctx, c, "services", c.inner.ListServices)
}

func (c *CatalogCache) ListGuests(ctx context.Context) ([]models.Guest, error) {
	return readThrough(ctx, c, "guests", c.inner.ListGuests)
}

func (c *CatalogCache) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return readThrough(ctx, c, "bookings", c.inner.ListBookings)
}

func (c *CatalogCache) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	return readThrough(ctx, c, "staff", c.inner.ListStaff)
}

func (c *CatalogCache) ListOrders(ctx context.Context) ([]models.Order, error) {
	return readThrough(ctx, c, "orders", c.inner.ListOrders)
}

var _ repositories.CatalogRepository = (*CatalogCache)(nil)
