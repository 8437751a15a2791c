package dto

import "time"

// ── 通知模块 DTO ──

// ContentRequest 通知内容
type ContentRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body"    binding:"required"`
}

// SendNotificationRequest 发送通知请求
type SendNotificationRequest struct {
	UserID  string          `json:"userId"  binding:"required,max=128"`
	Type    string          `json:"type"    binding:"required,oneof=marketing newsletter updates"`
	Channel string          `json:"channel" binding:"required,oneof=email sms push"`
	Content *ContentRequest `json:"content" binding:"required"`
}

// ContentResponse 通知内容
type ContentResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// LogMetadataResponse 发送审计信息
type LogMetadataResponse struct {
	Content     ContentResponse `json:"content"`
	AttemptedAt time.Time       `json:"attemptedAt"`
}

// NotificationLogResponse 通知日志响应
// SentAt 仅在 status=sent 时出现；FailureReason 仅在 status=failed 时出现
type NotificationLogResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	Type          string              `json:"type"`
	Channel       string              `json:"channel"`
	Status        string              `json:"status"`
	SentAt        *time.Time          `json:"sentAt,omitempty"`
	FailureReason *string             `json:"failureReason,omitempty"`
	Metadata      LogMetadataResponse `json:"metadata"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ChannelStatsResponse 单渠道统计
type ChannelStatsResponse struct {
	Total      int64   `json:"total"`
	Successful int64   `json:"successful"`
	Rate       float64 `json:"rate"`
}

// NotificationStatsResponse 全量发送统计
// 分母为 0 时成功率为 0
type NotificationStatsResponse struct {
	Total        int64                           `json:"total"`
	Sent         int64                           `json:"sent"`
	Failed       int64                           `json:"failed"`
	SuccessRate  float64                         `json:"successRate"`
	ChannelStats map[string]ChannelStatsResponse `json:"channelStats"`
}
