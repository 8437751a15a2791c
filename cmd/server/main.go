package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notify-center/config"
	"notify-center/pkg/database"
	applogger "notify-center/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "notify-center",
	Short: "用户通知偏好管理与通知分发服务",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// .env 不存在时忽略
		_ = godotenv.Load()
		return nil
	},
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return serve(configPath)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移后退出",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap(configPath)
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return err
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		return database.Migrate(db, cfg.Database.Driver, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 加载配置并初始化日志
func bootstrap(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}
