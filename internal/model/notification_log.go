package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 发送状态；当前同步发送只会产生 sent / failed
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Content 通知内容
type Content struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// LogMetadata 发送审计信息：提交的内容与尝试时间
type LogMetadata struct {
	Content     Content   `json:"content"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// NotificationLog 通知发送日志表，对应 notification_logs（只追加，不修改）
type NotificationLog struct {
	LogID         string                          `gorm:"type:uuid;primaryKey"`
	UserID        string                          `gorm:"type:varchar(128);not null;index:idx_notification_logs_user_created,priority:1"`
	Type          string                          `gorm:"type:varchar(20);not null"`
	Channel       string                          `gorm:"type:varchar(10);not null;index:idx_notification_logs_channel_status,priority:1"`
	Status        string                          `gorm:"type:varchar(10);not null;index:idx_notification_logs_channel_status,priority:2"`
	SentAt        *time.Time
	FailureReason *string                         `gorm:"type:text"`
	Metadata      datatypes.JSONType[LogMetadata] `gorm:"not null"`
	CreatedAt     time.Time                       `gorm:"not null;index:idx_notification_logs_user_created,priority:2,sort:desc"`
}

// TableName 指定表名
func (NotificationLog) TableName() string { return "notification_logs" }

// BeforeCreate 未指定主键时生成 UUID
func (l *NotificationLog) BeforeCreate(_ *gorm.DB) error {
	if l.LogID == "" {
		l.LogID = uuid.NewString()
	}
	return nil
}
