package repository

import (
	"context"

	"gorm.io/gorm"

	"notify-center/internal/model"
	pkgerrors "notify-center/pkg/errors"
)

// PreferenceRepository 用户通知偏好数据访问接口
type PreferenceRepository interface {
	// Create 插入偏好记录；user_id 已存在时返回 pkgerrors.ErrDuplicateKey
	Create(ctx context.Context, pref *model.UserPreference) error
	GetByUserID(ctx context.Context, userID string) (*model.UserPreference, error)
	// Update 按主键覆盖写入除 user_id / created_at 外的全部字段；
	// 记录不存在时返回 gorm.ErrRecordNotFound，不会插入新记录
	Update(ctx context.Context, pref *model.UserPreference) error
	// Delete 删除记录；未删除任何行时返回 gorm.ErrRecordNotFound
	Delete(ctx context.Context, userID string) error
}

type preferenceRepo struct {
	db *gorm.DB
}

// NewPreferenceRepo 创建 PreferenceRepository 实例
func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) Create(ctx context.Context, pref *model.UserPreference) error {
	return pkgerrors.TranslateDuplicate(r.db.WithContext(ctx).Create(pref).Error)
}

func (r *preferenceRepo) GetByUserID(ctx context.Context, userID string) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepo) Update(ctx context.Context, pref *model.UserPreference) error {
	result := r.db.WithContext(ctx).
		Model(&model.UserPreference{}).
		Where("user_id = ?", pref.UserID).
		Select("*").
		Omit("user_id", "created_at").
		Updates(pref)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *preferenceRepo) Delete(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserPreference{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
