package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"notify-center/internal/dto"
	"notify-center/internal/service"
	"notify-center/pkg/response"
)

// PreferenceHandler 通知偏好模块 HTTP 处理器
type PreferenceHandler struct {
	prefSvc service.PreferenceService
}

// NewPreferenceHandler 创建 PreferenceHandler
func NewPreferenceHandler(prefSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefSvc: prefSvc}
}

// CreatePreference 创建用户通知偏好
// POST /api/preferences
func (h *PreferenceHandler) CreatePreference(c *gin.Context) {
	var req dto.CreatePreferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	pref, err := h.prefSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.Created(c, pref)
}

// GetPreference 获取用户通知偏好
// GET /api/preferences/:userId
func (h *PreferenceHandler) GetPreference(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		response.BadRequest(c, 10001, "userId 不能为空")
		return
	}

	pref, err := h.prefSvc.FindOne(c.Request.Context(), userID)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, pref)
}

// UpdatePreference 部分更新用户通知偏好
// PATCH /api/preferences/:userId
func (h *PreferenceHandler) UpdatePreference(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		response.BadRequest(c, 10001, "userId 不能为空")
		return
	}

	var req dto.UpdatePreferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	pref, err := h.prefSvc.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, pref)
}

// DeletePreference 删除用户通知偏好
// DELETE /api/preferences/:userId
func (h *PreferenceHandler) DeletePreference(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		response.BadRequest(c, 10001, "userId 不能为空")
		return
	}

	if err := h.prefSvc.Remove(c.Request.Context(), userID); err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, nil)
}

// handlePreferenceError 统一处理偏好模块业务错误
func (h *PreferenceHandler) handlePreferenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPreferenceNotFound):
		response.NotFound(c, 20001, "用户通知偏好不存在")
	case errors.Is(err, service.ErrPreferenceExists):
		response.Conflict(c, 20002, "用户通知偏好已存在")
	case errors.Is(err, service.ErrUserIDImmutable):
		response.BadRequest(c, 20003, "userId 不可修改")
	default:
		response.InternalError(c)
	}
}
