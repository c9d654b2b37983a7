// internal/service/tracking/infrastructure/redis_limiter.go
package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAttemptLimiter 用 redis 计数器限制单个客户的核验尝试频率
// 搜索只会暴露已脱敏的候选，这里再限制对每个候选的试错次数，
// 让暴力猜 4 位尾号在窗口内不可行
type RedisAttemptLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewRedisAttemptLimiter 创建限流器，max 次 / window 窗口
func NewRedisAttemptLimiter(client *redis.Client, max int64, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, max: max, window: window}
}

// Allow 返回该客户是否还允许发起一次核验
// INCR 后第一次设置过期时间，窗口到期自动清零
func (l *RedisAttemptLimiter) Allow(ctx context.Context, customerID int64) (bool, error) {
	key := fmt.Sprintf("trackdesk:verify_attempts:%d", customerID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= l.max, nil
}
