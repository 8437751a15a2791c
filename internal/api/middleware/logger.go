package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// quietRoutes 探活与指标抓取频率高，成功时只记 Debug
var quietRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logger 请求日志中间件（基于 Zap 结构化日志）
// route 为路由模板（与限流 key、指标标签一致），path 为实际请求路径
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()
		route := c.FullPath()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.Int("status", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
		}
		if userID := c.Param("userId"); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		if retryAfter := c.Writer.Header().Get("Retry-After"); retryAfter != "" {
			fields = append(fields, zap.String("retry_after", retryAfter))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case statusCode >= 500:
			logger.Error("请求处理失败", fields...)
		case statusCode >= 400:
			logger.Warn("客户端错误", fields...)
		case quietRoutes[route]:
			logger.Debug("请求完成", fields...)
		default:
			logger.Info("请求完成", fields...)
		}
	}
}
