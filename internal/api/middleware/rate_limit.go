package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notify-center/pkg/metrics"
	"notify-center/pkg/response"
)

// RateLimitStore 限流计数存储
// allowed=false 时 retryAfter 为建议的重试等待时长
type RateLimitStore interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error)
}

// RateLimit 按「客户端 IP + 路由」限流的中间件
// limit: 窗口内允许的最大请求数
// window: 窗口时长
// store 出错时降级放行
func RateLimit(store RateLimitStore, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		key := fmt.Sprintf("%s:%s", c.ClientIP(), route)
		allowed, retryAfter, err := store.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			metrics.IncrementRateLimitReject(route)
			response.TooManyRequests(c, 10004, "请求过于频繁，请稍后再试", retryAfter)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ── 进程内限流（Redis 不可用时使用） ──

// LocalLimiter 进程内滑动窗口限流存储
// 每个 key 保存窗口内的请求时间戳，语义与 pkg/redis 的滑动窗口一致
type LocalLimiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewLocalLimiter 创建进程内限流存储
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

// CheckRateLimit 实现 RateLimitStore
func (l *LocalLimiter) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now, window)

	hits := pruneBefore(l.hits[key], now.Add(-window))
	if len(hits) >= limit {
		l.hits[key] = hits
		retryAfter := hits[0].Add(window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter, nil
	}

	l.hits[key] = append(hits, now)
	return true, 0, nil
}

// pruneBefore 丢弃不晚于 cutoff 的时间戳，hits 按时间升序
func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// sweep 每个窗口清理一次已无有效请求的 key
func (l *LocalLimiter) sweep(now time.Time, window time.Duration) {
	if now.Sub(l.lastSweep) < window {
		return
	}
	cutoff := now.Add(-window)
	for k, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.hits, k)
		}
	}
	l.lastSweep = now
}
