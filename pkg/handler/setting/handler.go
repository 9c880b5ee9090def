/*
 * @Description: 站点配置管理处理器
 * @Author: 安知鱼
 * @Date: 2025-12-14 17:10:23
 * @LastEditTime: 2026-01-21 11:20:36
 * @LastEditors: 安知鱼
 */
package setting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/pkg/response"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/setting"
)

// Handler 配置管理处理器
type Handler struct {
	settingSvc setting.SettingService
}

// NewHandler 创建配置管理处理器
func NewHandler(settingSvc setting.SettingService) *Handler {
	return &Handler{settingSvc: settingSvc}
}

// GetSettings 按键批量读取配置
// @Summary      批量读取配置
// @Tags         配置管理
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/settings/get [post]
func (h *Handler) GetSettings(c *gin.Context) {
	var req struct {
		Keys []string `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}
	response.Success(c, h.settingSvc.GetByKeys(req.Keys), "ok")
}

// UpdateSettings 批量更新配置
// @Summary      批量更新配置
// @Description  更新配置项并触发相关缓存失效
// @Tags         配置管理
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}
	if len(req) == 0 {
		response.Fail(c, http.StatusBadRequest, "没有需要更新的配置项")
		return
	}
	if err := h.settingSvc.UpdateSettings(c.Request.Context(), req); err != nil {
		response.Fail(c, http.StatusInternalServerError, "更新配置失败: "+err.Error())
		return
	}
	response.Success(c, nil, "配置已更新")
}
