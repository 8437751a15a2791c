package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"notify-center/internal/dto"
	"notify-center/internal/model"
	"notify-center/internal/repository"
	"notify-center/internal/sender"
	"notify-center/pkg/metrics"
)

// ── 通知模块业务错误 ──

var (
	ErrNotificationTypeDisabled = errors.New("用户已关闭该类型通知")
	ErrChannelDisabled          = errors.New("用户已关闭该通知渠道")
)

// GateError 偏好门控拒绝，Value 为被关闭的通知类型或渠道
type GateError struct {
	Gate  error
	Value string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Gate.Error(), e.Value)
}

func (e *GateError) Unwrap() error { return e.Gate }

// NotificationService 通知分发与日志统计业务接口
type NotificationService interface {
	// Send 校验偏好后投递并记录日志；投递失败不返回错误，而是返回 status=failed 的日志
	Send(ctx context.Context, req *dto.SendNotificationRequest) (*dto.NotificationLogResponse, error)
	GetLogs(ctx context.Context, userID string) ([]dto.NotificationLogResponse, error)
	GetStats(ctx context.Context) (*dto.NotificationStatsResponse, error)
}

type notificationService struct {
	repo    *repository.Repository
	prefSvc PreferenceService
	sender  sender.Sender
	timeout time.Duration
	logger  *zap.Logger
	now     clock
}

// NewNotificationService 创建 NotificationService 实例
// timeout 限制单次投递耗时，<=0 时不限制
func NewNotificationService(
	repo *repository.Repository,
	prefSvc PreferenceService,
	s sender.Sender,
	timeout time.Duration,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:    repo,
		prefSvc: prefSvc,
		sender:  s,
		timeout: timeout,
		logger:  logger,
		now:     utcNow,
	}
}

// ═══════════════════════════════════════════════════════════
// Send: 偏好门控 → 投递 → 记录日志
// ═══════════════════════════════════════════════════════════

func (s *notificationService) Send(ctx context.Context, req *dto.SendNotificationRequest) (*dto.NotificationLogResponse, error) {
	// 1. 读取偏好，不存在时原样返回 ErrPreferenceNotFound
	pref, err := s.prefSvc.FindOne(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	prefs := fromPreferencesResponse(pref.Preferences)

	// 2. 通知类型门控
	if enabled, _ := prefs.TypeEnabled(req.Type); !enabled {
		metrics.IncrementGateReject("type")
		return nil, &GateError{Gate: ErrNotificationTypeDisabled, Value: req.Type}
	}

	// 3. 渠道门控
	if enabled, _ := prefs.Channels.Enabled(req.Channel); !enabled {
		metrics.IncrementGateReject("channel")
		return nil, &GateError{Gate: ErrChannelDisabled, Value: req.Channel}
	}

	// 4. 投递
	content := model.Content{}
	if req.Content != nil {
		content = model.Content{Subject: req.Content.Subject, Body: req.Content.Body}
	}
	// 客户端断开不应中断投递或被记为投递失败，投递与日志写入仅受 dispatch 超时约束
	dispatchCtx := context.WithoutCancel(ctx)
	attemptedAt := s.now()
	sendErr := s.deliver(dispatchCtx, sender.Message{
		Channel:   req.Channel,
		Recipient: recipientFor(req.Channel, pref),
		Subject:   content.Subject,
		Body:      content.Body,
	})

	// 5. 记录日志（成功与失败均写入）
	now := s.now()
	log := &model.NotificationLog{
		UserID:  req.UserID,
		Type:    req.Type,
		Channel: req.Channel,
		Metadata: datatypes.NewJSONType(model.LogMetadata{
			Content:     content,
			AttemptedAt: attemptedAt,
		}),
		CreatedAt: now,
	}
	if sendErr == nil {
		log.Status = model.StatusSent
		log.SentAt = &now
	} else {
		reason := sendErr.Error()
		log.Status = model.StatusFailed
		log.FailureReason = &reason
	}

	persistCtx, cancel := s.withTimeout(dispatchCtx)
	defer cancel()
	if err := s.repo.NotificationLog.Create(persistCtx, log); err != nil {
		s.logger.Error("写入通知日志失败",
			zap.String("user_id", req.UserID),
			zap.String("channel", req.Channel),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.IncrementNotificationDispatch(log.Channel, log.Type, log.Status)
	if sendErr != nil {
		s.logger.Warn("通知投递失败",
			zap.String("log_id", log.LogID),
			zap.String("user_id", req.UserID),
			zap.String("type", req.Type),
			zap.String("channel", req.Channel),
			zap.Error(sendErr),
		)
	} else {
		s.logger.Info("通知投递成功",
			zap.String("log_id", log.LogID),
			zap.String("user_id", req.UserID),
			zap.String("type", req.Type),
			zap.String("channel", req.Channel),
		)
	}

	// 6. 无论投递成败均返回已持久化的日志
	return toNotificationLogResponse(log), nil
}

// deliver 在超时控制下调用传输层
func (s *notificationService) deliver(ctx context.Context, msg sender.Message) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.sender.Send(ctx, msg)
}

// withTimeout timeout<=0 时不设超时
func (s *notificationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// recipientFor email 渠道投递到偏好中登记的邮箱，其余渠道以 userId 作为投递目标
func recipientFor(channel string, pref *dto.PreferenceResponse) string {
	if channel == model.ChannelEmail {
		return pref.Email
	}
	return pref.UserID
}

// ────────────────────── GetLogs ──────────────────────

func (s *notificationService) GetLogs(ctx context.Context, userID string) ([]dto.NotificationLogResponse, error) {
	logs, err := s.repo.NotificationLog.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询通知日志失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.NotificationLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, *toNotificationLogResponse(&logs[i]))
	}
	return result, nil
}

// ────────────────────── GetStats ──────────────────────

func (s *notificationService) GetStats(ctx context.Context) (*dto.NotificationStatsResponse, error) {
	rows, err := s.repo.NotificationLog.CountByChannelAndStatus(ctx)
	if err != nil {
		s.logger.Error("统计通知日志失败", zap.Error(err))
		return nil, err
	}
	return aggregateStats(rows), nil
}

// aggregateStats 将 (channel, status) 分组计数汇总为总量与分渠道成功率
func aggregateStats(rows []repository.ChannelStatusCount) *dto.NotificationStatsResponse {
	stats := &dto.NotificationStatsResponse{
		ChannelStats: make(map[string]dto.ChannelStatsResponse),
	}

	for _, row := range rows {
		stats.Total += row.Count
		ch := stats.ChannelStats[row.Channel]
		ch.Total += row.Count

		switch row.Status {
		case model.StatusSent:
			stats.Sent += row.Count
			ch.Successful += row.Count
		case model.StatusFailed:
			stats.Failed += row.Count
		}
		stats.ChannelStats[row.Channel] = ch
	}

	stats.SuccessRate = percentage(stats.Sent, stats.Total)
	for name, ch := range stats.ChannelStats {
		ch.Rate = percentage(ch.Successful, ch.Total)
		stats.ChannelStats[name] = ch
	}
	return stats
}

// percentage 分母为 0 时返回 0
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// ── 内部辅助方法 ──

func fromPreferencesResponse(p dto.PreferencesResponse) model.Preferences {
	return model.Preferences{
		Marketing:  p.Marketing,
		Newsletter: p.Newsletter,
		Updates:    p.Updates,
		Frequency:  p.Frequency,
		Channels: model.Channels{
			Email: p.Channels.Email,
			SMS:   p.Channels.SMS,
			Push:  p.Channels.Push,
		},
	}
}

func toNotificationLogResponse(l *model.NotificationLog) *dto.NotificationLogResponse {
	meta := l.Metadata.Data()
	return &dto.NotificationLogResponse{
		ID:            l.LogID,
		UserID:        l.UserID,
		Type:          l.Type,
		Channel:       l.Channel,
		Status:        l.Status,
		SentAt:        l.SentAt,
		FailureReason: l.FailureReason,
		Metadata: dto.LogMetadataResponse{
			Content: dto.ContentResponse{
				Subject: meta.Content.Subject,
				Body:    meta.Content.Body,
			},
			AttemptedAt: meta.AttemptedAt,
		},
		CreatedAt: l.CreatedAt,
	}
}
