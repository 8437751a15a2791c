package handler

import "notify-center/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Preference   *PreferenceHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Preference:   NewPreferenceHandler(svc.Preference),
		Notification: NewNotificationHandler(svc.Notification, svc.Export),
	}
}
