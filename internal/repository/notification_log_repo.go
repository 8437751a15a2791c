package repository

import (
	"context"

	"gorm.io/gorm"

	"notify-center/internal/model"
)

// ChannelStatusCount 按渠道与状态分组的计数
type ChannelStatusCount struct {
	Channel string
	Status  string
	Count   int64
}

// NotificationLogRepository 通知日志数据访问接口（只追加）
type NotificationLogRepository interface {
	Create(ctx context.Context, log *model.NotificationLog) error
	// ListByUser 按创建时间倒序返回用户全部日志
	ListByUser(ctx context.Context, userID string) ([]model.NotificationLog, error)
	// CountByChannelAndStatus 全量日志按 (channel, status) 分组计数
	CountByChannelAndStatus(ctx context.Context) ([]ChannelStatusCount, error)
}

type notificationLogRepo struct {
	db *gorm.DB
}

// NewNotificationLogRepo 创建 NotificationLogRepository 实例
func NewNotificationLogRepo(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepo{db: db}
}

func (r *notificationLogRepo) Create(ctx context.Context, log *model.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *notificationLogRepo) ListByUser(ctx context.Context, userID string) ([]model.NotificationLog, error) {
	logs := make([]model.NotificationLog, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("log_id DESC").
		Find(&logs).Error
	return logs, err
}

func (r *notificationLogRepo) CountByChannelAndStatus(ctx context.Context) ([]ChannelStatusCount, error) {
	var rows []ChannelStatusCount
	err := r.db.WithContext(ctx).
		Model(&model.NotificationLog{}).
		Select("channel, status, COUNT(*) AS count").
		Group("channel, status").
		Order("channel").
		Scan(&rows).Error
	return rows, err
}
