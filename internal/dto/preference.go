package dto

import "time"

// ── 通知偏好模块 DTO ──
// 字段名沿用既有客户端约定（camelCase）

// ChannelsRequest 渠道开关
// 布尔字段使用指针，required 才能区分「未提供」与「false」
type ChannelsRequest struct {
	Email *bool `json:"email" binding:"required"`
	SMS   *bool `json:"sms"   binding:"required"`
	Push  *bool `json:"push"  binding:"required"`
}

// PreferencesRequest 通知类型开关、频率与渠道
type PreferencesRequest struct {
	Marketing  *bool            `json:"marketing"  binding:"required"`
	Newsletter *bool            `json:"newsletter" binding:"required"`
	Updates    *bool            `json:"updates"    binding:"required"`
	Frequency  string           `json:"frequency"  binding:"required,oneof=daily weekly monthly never"`
	Channels   *ChannelsRequest `json:"channels"   binding:"required"`
}

// CreatePreferenceRequest 创建偏好请求
type CreatePreferenceRequest struct {
	UserID      string              `json:"userId"      binding:"required,max=128"`
	Email       string              `json:"email"       binding:"required,email,max=320"`
	Preferences *PreferencesRequest `json:"preferences" binding:"required"`
	Timezone    string              `json:"timezone"    binding:"required,max=64"`
}

// UpdatePreferenceRequest 部分更新请求
// Preferences 非空时整体替换原有偏好（不做逐字段合并），因此内部字段仍为必填
type UpdatePreferenceRequest struct {
	UserID      *string             `json:"userId"      binding:"omitempty,min=1,max=128"`
	Email       *string             `json:"email"       binding:"omitempty,email,max=320"`
	Preferences *PreferencesRequest `json:"preferences" binding:"omitempty"`
	Timezone    *string             `json:"timezone"    binding:"omitempty,min=1,max=64"`
}

// ChannelsResponse 渠道开关
type ChannelsResponse struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// PreferencesResponse 偏好详情
type PreferencesResponse struct {
	Marketing  bool             `json:"marketing"`
	Newsletter bool             `json:"newsletter"`
	Updates    bool             `json:"updates"`
	Frequency  string           `json:"frequency"`
	Channels   ChannelsResponse `json:"channels"`
}

// PreferenceResponse 用户偏好响应
type PreferenceResponse struct {
	UserID      string              `json:"userId"`
	Email       string              `json:"email"`
	Preferences PreferencesResponse `json:"preferences"`
	Timezone    string              `json:"timezone"`
	LastUpdated time.Time           `json:"lastUpdated"`
	CreatedAt   time.Time           `json:"createdAt"`
}
