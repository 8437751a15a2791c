package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"notify-center/internal/dto"
	"notify-center/internal/model"
	"notify-center/internal/repository"
	pkgerrors "notify-center/pkg/errors"
)

// ── 通知偏好模块业务错误 ──

var (
	ErrPreferenceNotFound = errors.New("用户通知偏好不存在")
	ErrPreferenceExists   = errors.New("用户通知偏好已存在")
	ErrUserIDImmutable    = errors.New("userId 不可修改")
)

// PreferenceService 通知偏好业务接口
type PreferenceService interface {
	Create(ctx context.Context, req *dto.CreatePreferenceRequest) (*dto.PreferenceResponse, error)
	FindOne(ctx context.Context, userID string) (*dto.PreferenceResponse, error)
	// Update 浅合并顶层字段；preferences 整体替换
	Update(ctx context.Context, userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
	// Remove 删除偏好，不影响已有通知日志
	Remove(ctx context.Context, userID string) error
}

type preferenceService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    clock
}

// NewPreferenceService 创建 PreferenceService 实例
func NewPreferenceService(repo *repository.Repository, logger *zap.Logger) PreferenceService {
	return &preferenceService{repo: repo, logger: logger, now: utcNow}
}

// ────────────────────── Create ──────────────────────

func (s *preferenceService) Create(ctx context.Context, req *dto.CreatePreferenceRequest) (*dto.PreferenceResponse, error) {
	now := s.now()
	pref := &model.UserPreference{
		UserID:      req.UserID,
		Email:       req.Email,
		Preferences: toModelPreferences(req.Preferences),
		Timezone:    req.Timezone,
		LastUpdated: now,
		CreatedAt:   now,
	}

	if err := s.repo.Preference.Create(ctx, pref); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrPreferenceExists
		}
		s.logger.Error("创建通知偏好失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("通知偏好已创建", zap.String("user_id", pref.UserID))
	return toPreferenceResponse(pref), nil
}

// ────────────────────── FindOne ──────────────────────

func (s *preferenceService) FindOne(ctx context.Context, userID string) (*dto.PreferenceResponse, error) {
	pref, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toPreferenceResponse(pref), nil
}

// ────────────────────── Update ──────────────────────

func (s *preferenceService) Update(ctx context.Context, userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	if req.UserID != nil && *req.UserID != userID {
		return nil, ErrUserIDImmutable
	}

	pref, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		pref.Email = *req.Email
	}
	if req.Preferences != nil {
		pref.Preferences = toModelPreferences(req.Preferences)
	}
	if req.Timezone != nil {
		pref.Timezone = *req.Timezone
	}
	pref.LastUpdated = s.now()

	if err := s.repo.Preference.Update(ctx, pref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 读取后被并发删除
			return nil, ErrPreferenceNotFound
		}
		s.logger.Error("更新通知偏好失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return toPreferenceResponse(pref), nil
}

// ────────────────────── Remove ──────────────────────

func (s *preferenceService) Remove(ctx context.Context, userID string) error {
	if err := s.repo.Preference.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPreferenceNotFound
		}
		s.logger.Error("删除通知偏好失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("通知偏好已删除", zap.String("user_id", userID))
	return nil
}

// ── 内部辅助方法 ──

func (s *preferenceService) get(ctx context.Context, userID string) (*model.UserPreference, error) {
	pref, err := s.repo.Preference.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPreferenceNotFound
		}
		s.logger.Error("查询通知偏好失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return pref, nil
}

func toModelPreferences(p *dto.PreferencesRequest) model.Preferences {
	return model.Preferences{
		Marketing:  derefBool(p.Marketing),
		Newsletter: derefBool(p.Newsletter),
		Updates:    derefBool(p.Updates),
		Frequency:  p.Frequency,
		Channels: model.Channels{
			Email: p.Channels != nil && derefBool(p.Channels.Email),
			SMS:   p.Channels != nil && derefBool(p.Channels.SMS),
			Push:  p.Channels != nil && derefBool(p.Channels.Push),
		},
	}
}

func toPreferenceResponse(pref *model.UserPreference) *dto.PreferenceResponse {
	p := pref.Preferences
	return &dto.PreferenceResponse{
		UserID: pref.UserID,
		Email:  pref.Email,
		Preferences: dto.PreferencesResponse{
			Marketing:  p.Marketing,
			Newsletter: p.Newsletter,
			Updates:    p.Updates,
			Frequency:  p.Frequency,
			Channels: dto.ChannelsResponse{
				Email: p.Channels.Email,
				SMS:   p.Channels.SMS,
				Push:  p.Channels.Push,
			},
		},
		Timezone:    pref.Timezone,
		LastUpdated: pref.LastUpdated,
		CreatedAt:   pref.CreatedAt,
	}
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
