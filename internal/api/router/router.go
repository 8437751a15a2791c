package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"notify-center/config"
	"notify-center/internal/api/handler"
	"notify-center/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 或配置关闭限流时不挂载限流中间件
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimitStore, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logger.Warn("健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── Prometheus 指标 ──
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── API ──
	api := r.Group("/api")
	if cfg.RateLimit.Enabled && limiter != nil {
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger))
	}
	{
		// 通知偏好模块
		preferences := api.Group("/preferences")
		{
			preferences.POST("", h.Preference.CreatePreference)
			preferences.GET("/:userId", h.Preference.GetPreference)
			preferences.PATCH("/:userId", h.Preference.UpdatePreference)
			preferences.DELETE("/:userId", h.Preference.DeletePreference)
		}

		// 通知模块
		notifications := api.Group("/notifications")
		{
			notifications.POST("/send", h.Notification.SendNotification)
			notifications.GET("/stats", h.Notification.GetStats)
			notifications.GET("/:userId/logs", h.Notification.GetLogs)
			notifications.GET("/:userId/logs/export", h.Notification.ExportLogs)
		}
	}

	return r
}
