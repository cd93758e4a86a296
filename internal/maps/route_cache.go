package maps

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const routeCacheTTL = 30 * 24 * time.Hour

// RouteCache caches resolved driving distances in Redis. Road distances are
// effectively static, so entries carry a long TTL.
type RouteCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRouteCache wraps a Redis client as a distance cache.
func NewRouteCache(client *redis.Client, log *zap.Logger) *RouteCache {
	return &RouteCache{client: client, log: log}
}

func cacheKey(from, to string) string {
	if from > to {
		from, to = to, from
	}
	return "route:km:" + from + ":" + to
}

// GetDistance returns a cached distance. Cache errors are treated as misses.
func (c *RouteCache) GetDistance(ctx context.Context, from, to string) (float64, bool) {
	val, err := c.client.Get(ctx, cacheKey(from, to)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("route cache read failed", zap.Error(err))
		}
		return 0, false
	}
	km, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return km, true
}

// SetDistance stores a resolved distance. Failures are logged and ignored.
func (c *RouteCache) SetDistance(ctx context.Context, from, to string, km float64) {
	if err := c.client.Set(ctx, cacheKey(from, to), strconv.FormatFloat(km, 'f', -1, 64), routeCacheTTL).Err(); err != nil {
		c.log.Warn("route cache write failed", zap.Error(err))
	}
}
