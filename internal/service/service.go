package service

import (
	"time"

	"go.uber.org/zap"

	"notify-center/config"
	"notify-center/internal/repository"
	"notify-center/internal/sender"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Preference   PreferenceService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	s sender.Sender,
	logger *zap.Logger,
) *Service {
	pref := NewPreferenceService(repo, logger)
	return &Service{
		Preference:   pref,
		Notification: NewNotificationService(repo, pref, s, cfg.Dispatch.Timeout, logger),
		Export:       NewExportService(repo, logger),
	}
}

// clock 统一时间来源，测试中可替换
type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
