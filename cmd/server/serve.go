package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"notify-center/internal/api/handler"
	"notify-center/internal/api/middleware"
	"notify-center/internal/api/router"
	"notify-center/internal/repository"
	"notify-center/internal/sender"
	"notify-center/internal/service"
	"notify-center/pkg/database"
	"notify-center/pkg/redis"
)

func serve(path string) error {
	// 1. 加载配置、初始化日志
	cfg, logger, err := bootstrap(path)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// 2. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Error("数据库连接失败", zap.Error(err))
		return err
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		logger.Error("数据库迁移失败", zap.Error(err))
		return err
	}

	// 3. 限流存储：优先 Redis，不可用时降级为进程内限流
	var (
		rdb     *redis.Client
		limiter middleware.RateLimitStore
	)
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Enabled {
			rdb, err = redis.NewClient(&cfg.Redis, logger)
			if err != nil {
				logger.Warn("Redis 连接失败，限流降级为进程内计数", zap.Error(err))
				rdb = nil
			}
		}
		if rdb != nil {
			limiter = rdb
		} else {
			limiter = middleware.NewLocalLimiter()
		}
	}

	// 4. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	s := sender.NewSimulatedSender(cfg.Dispatch.SuccessRate, nil)
	svc := service.NewService(cfg, repo, s, logger)
	h := handler.NewHandler(svc)

	// 5. 初始化路由
	engine := router.Setup(cfg, h, limiter, db, logger)

	// 6. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 7. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-quit:
		logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	case serveErr = <-errCh:
		logger.Error("HTTP 服务器异常", zap.Error(serveErr))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
	return serveErr
}
