package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"transport-roadmap-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisTravelTimeCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisTravelTimeCache(client, time.Hour), srv
}

func TestRedisTravelTimeCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	origin := domain.Coordinate{Lat: -23.55, Lon: -46.63}
	destination := domain.Coordinate{Lat: -23.60, Lon: -46.70}

	if _, ok, err := c.Get(ctx, origin, destination); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, origin, destination, 780); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	seconds, ok, err := c.Get(ctx, origin, destination)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || seconds != 780 {
		t.Errorf("got (%d, %v), want (780, true)", seconds, ok)
	}

	// reverse direction is a distinct key: symmetry is the matrix
	// builder's concern, not the cache's
	if _, ok, _ := c.Get(ctx, destination, origin); ok {
		t.Error("reverse direction should miss")
	}
}

func TestRedisTravelTimeCacheExpiry(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	origin := domain.Coordinate{Lat: 1, Lon: 2}
	destination := domain.Coordinate{Lat: 3, Lon: 4}

	if err := c.Put(ctx, origin, destination, 60); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	srv.FastForward(2 * time.Hour)

	if _, ok, _ := c.Get(ctx, origin, destination); ok {
		t.Error("expected entry to expire after TTL")
	}
}
