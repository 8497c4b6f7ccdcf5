package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"usaha-chatbot/config"
	"usaha-chatbot/models"
)

// Resolver is what the description pipeline depends on; Cache implements it.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) models.GeocodeResult
}

type entry struct {
	result    models.GeocodeResult
	resolved  bool
	expiresAt time.Time
}

// Cache is an LRU over quantized coordinate pairs. A miss issues exactly one
// provider call per key, shared across concurrent callers through a
// singleflight group. Failures are cached too, under a shorter TTL, so a
// flaky provider is not hammered for the same coordinates.
type Cache struct {
	client  Client
	entries *lru.Cache[string, *entry]
	group   singleflight.Group

	precision  int
	successTTL time.Duration
	failureTTL time.Duration

	now func() time.Time
}

func NewCache(client Client, cfg *config.Geocode) (*Cache, error) {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 2048
	}
	precision := cfg.Precision
	if precision <= 0 {
		precision = 4
	}
	successTTL := cfg.SuccessTTL
	if successTTL <= 0 {
		successTTL = 24 * time.Hour
	}
	failureTTL := cfg.FailureTTL
	if failureTTL <= 0 {
		failureTTL = 5 * time.Minute
	}

	entries, err := lru.New[string, *entry](capacity)
	if err != nil {
		return nil, err
	}

	return &Cache{
		client:     client,
		entries:    entries,
		precision:  precision,
		successTTL: successTTL,
		failureTTL: failureTTL,
		now:        time.Now,
	}, nil
}

// Resolve never fails: on provider trouble it returns a coordinate-only
// result. A cache hit promotes the entry; an expired entry counts as a miss.
func (c *Cache) Resolve(ctx context.Context, lat, lon float64) models.GeocodeResult {
	key := c.key(lat, lon)

	if e, ok := c.entries.Get(key); ok && c.now().Before(e.expiresAt) {
		return e.result
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		// Another waiter may have filled the entry while we queued.
		if e, ok := c.entries.Get(key); ok && c.now().Before(e.expiresAt) {
			return e.result, nil
		}

		result, err := c.client.Reverse(ctx, lat, lon)
		if err != nil {
			slog.Warn("reverse geocode failed, caching degraded result", "err", err, "key", key)
			result = DegradedResult(lat, lon)
			c.entries.Add(key, &entry{result: result, resolved: false, expiresAt: c.now().Add(c.failureTTL)})
			return result, nil
		}

		c.entries.Add(key, &entry{result: result, resolved: true, expiresAt: c.now().Add(c.successTTL)})
		return result, nil
	})

	return v.(models.GeocodeResult)
}

// Warm resolves a coordinate pair just to populate the cache.
func (c *Cache) Warm(ctx context.Context, lat, lon float64) {
	c.Resolve(ctx, lat, lon)
}

func (c *Cache) key(lat, lon float64) string {
	return fmt.Sprintf("%.*f,%.*f", c.precision, lat, c.precision, lon)
}

// DegradedResult is the coordinate-only fallback used when the provider is
// unreachable or returns garbage.
func DegradedResult(lat, lon float64) models.GeocodeResult {
	summary := fmt.Sprintf("sekitar koordinat %.4f, %.4f", lat, lon)
	return models.GeocodeResult{
		Ringkas: summary,
		Full:    summary,
	}
}
