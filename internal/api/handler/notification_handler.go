package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"notify-center/internal/dto"
	"notify-center/internal/service"
	"notify-center/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notifySvc service.NotificationService
	exportSvc service.ExportService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notifySvc service.NotificationService, exportSvc service.ExportService) *NotificationHandler {
	return &NotificationHandler{notifySvc: notifySvc, exportSvc: exportSvc}
}

// SendNotification 发送通知
// POST /api/notifications/send
//
// 投递失败同样返回 201，响应数据为 status=failed 的日志
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	var req dto.SendNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	log, err := h.notifySvc.Send(c.Request.Context(), &req)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.Created(c, log)
}

// GetLogs 获取用户通知日志
// GET /api/notifications/:userId/logs
func (h *NotificationHandler) GetLogs(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		response.BadRequest(c, 10001, "userId 不能为空")
		return
	}

	logs, err := h.notifySvc.GetLogs(c.Request.Context(), userID)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, logs)
}

// GetStats 获取全量发送统计
// GET /api/notifications/stats
func (h *NotificationHandler) GetStats(c *gin.Context) {
	stats, err := h.notifySvc.GetStats(c.Request.Context())
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, stats)
}

// ExportLogs 导出用户通知日志
// GET /api/notifications/:userId/logs/export
func (h *NotificationHandler) ExportLogs(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		response.BadRequest(c, 10001, "userId 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportLogs(c.Request.Context(), userID)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleNotificationError 统一处理通知模块业务错误
func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	var gateErr *service.GateError
	switch {
	case errors.Is(err, service.ErrPreferenceNotFound):
		response.NotFound(c, 20001, "用户通知偏好不存在")
	case errors.As(err, &gateErr) && errors.Is(err, service.ErrNotificationTypeDisabled):
		response.UnprocessableEntity(c, 21001, "用户已关闭该类型通知", gin.H{"type": gateErr.Value})
	case errors.As(err, &gateErr) && errors.Is(err, service.ErrChannelDisabled):
		response.UnprocessableEntity(c, 21002, "用户已关闭该通知渠道", gin.H{"channel": gateErr.Value})
	case errors.Is(err, service.ErrExportNoLogs):
		response.NotFound(c, 21101, "该用户暂无通知日志")
	default:
		response.InternalError(c)
	}
}
