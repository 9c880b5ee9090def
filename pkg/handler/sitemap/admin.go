/*
 * @Description: 站点地图管理接口：重建、清缓存、查看统计
 * @Author: 安知鱼
 * @Date: 2025-12-13 15:40:29
 * @LastEditTime: 2026-01-20 17:11:08
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/pkg/response"
)

// Regenerate 触发站点地图重建
// @Summary      重建站点地图
// @Description  清空全部站点地图缓存，各文档在下次被请求时重新生成
// @Tags         站点地图管理
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/sitemap/regenerate [post]
func (h *Handler) Regenerate(c *gin.Context) {
	count, err := h.sitemapService.Regenerate(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "重建站点地图失败: "+err.Error())
		return
	}
	response.Success(c, gin.H{"regenerated": count}, "站点地图将在下次请求时重建")
}

// ClearCache 清空站点地图缓存
// @Summary      清空站点地图缓存
// @Tags         站点地图管理
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/sitemap/cache/clear [post]
func (h *Handler) ClearCache(c *gin.Context) {
	count, err := h.sitemapService.ClearCache(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "清空缓存失败: "+err.Error())
		return
	}
	response.Success(c, gin.H{"cleared": count}, "缓存已清空")
}

// GetStats 查看站点地图运行统计
// @Summary      查看站点地图统计
// @Description  返回各站点地图的生成记录、命中计数与最近一次搜索引擎通知结果
// @Tags         站点地图管理
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/sitemap/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	response.Success(c, h.sitemapService.Stats().Snapshot(), "ok")
}
