// AngelaMos | 2026
// cache.go

package place

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/beanscore/internal/core"
)

// AssetCache holds image bytes keyed by place version. Implementations
// swallow their own failures; a miss is always safe.
type AssetCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// assetKey embeds the row's updated_at so any write to the place makes
// earlier entries unreachable.
func assetKey(kind AssetKind, placeID string, version time.Time) string {
	return fmt.Sprintf("asset:%s:%s:%d", kind, placeID, version.UnixNano())
}

type RedisAssetCache struct {
	redis *core.Redis
	ttl   time.Duration
}

func NewRedisAssetCache(redis *core.Redis, ttl time.Duration) *RedisAssetCache {
	return &RedisAssetCache{redis: redis, ttl: ttl}
}

func (c *RedisAssetCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := c.redis.GetBytes(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "asset cache read failed",
			"key", key,
			"error", err,
		)
		return nil, false
	}

	return data, ok
}

func (c *RedisAssetCache) Set(ctx context.Context, key string, data []byte) {
	if err := c.redis.SetBytes(ctx, key, data, c.ttl); err != nil {
		slog.WarnContext(ctx, "asset cache write failed",
			"key", key,
			"error", err,
		)
	}
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nopCache) Set(context.Context, string, []byte)        {}
