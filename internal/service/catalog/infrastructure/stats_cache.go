// internal/service/catalog/infrastructure/stats_cache.go
package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"trackdesk/internal/pkg/logger"
	"trackdesk/internal/service/catalog/domain"
)

const statsCacheKey = "trackdesk:admin_stats"

// RedisStatsCache 把后台汇总结果缓存在 redis 里
// 缓存只是加速，任何 redis 故障都按缓存未命中处理
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache 创建汇总缓存，ttl 通常取 30s
func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*domain.Stats, bool) {
	data, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("stats cache read failed")
		}
		return nil, false
	}
	var stats domain.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *RedisStatsCache) Set(ctx context.Context, stats *domain.Stats) {
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsCacheKey, data, c.ttl).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("stats cache write failed")
	}
}
