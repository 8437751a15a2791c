package model

import "time"

// 通知类型
const (
	TypeMarketing  = "marketing"
	TypeNewsletter = "newsletter"
	TypeUpdates    = "updates"
)

// 通知渠道
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// 推送频率（仅存储，不参与调度）
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyNever   = "never"
)

// Channels 渠道开关
type Channels struct {
	Email bool `gorm:"not null;default:false"`
	SMS   bool `gorm:"not null;default:false"`
	Push  bool `gorm:"not null;default:false"`
}

// Enabled 返回指定渠道是否开启；known=false 表示渠道未定义
func (c Channels) Enabled(channel string) (enabled, known bool) {
	switch channel {
	case ChannelEmail:
		return c.Email, true
	case ChannelSMS:
		return c.SMS, true
	case ChannelPush:
		return c.Push, true
	}
	return false, false
}

// Preferences 通知类型开关、频率与渠道开关
type Preferences struct {
	Marketing  bool     `gorm:"not null;default:false"`
	Newsletter bool     `gorm:"not null;default:false"`
	Updates    bool     `gorm:"not null;default:false"`
	Frequency  string   `gorm:"type:varchar(16);not null"`
	Channels   Channels `gorm:"embedded;embeddedPrefix:channel_"`
}

// TypeEnabled 返回指定通知类型是否开启；known=false 表示类型未定义
func (p Preferences) TypeEnabled(notificationType string) (enabled, known bool) {
	switch notificationType {
	case TypeMarketing:
		return p.Marketing, true
	case TypeNewsletter:
		return p.Newsletter, true
	case TypeUpdates:
		return p.Updates, true
	}
	return false, false
}

// UserPreference 用户通知偏好表，对应 user_preferences（每个用户一条）
type UserPreference struct {
	UserID      string      `gorm:"type:varchar(128);primaryKey"`
	Email       string      `gorm:"type:varchar(320);not null"`
	Preferences Preferences `gorm:"embedded;embeddedPrefix:pref_"`
	Timezone    string      `gorm:"type:varchar(64);not null"`
	LastUpdated time.Time   `gorm:"not null"`
	CreatedAt   time.Time   `gorm:"not null"`
}

// TableName 指定表名
func (UserPreference) TableName() string { return "user_preferences" }
