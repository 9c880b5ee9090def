/*
 * @Description: 分类法条目管理处理器
 * @Author: 安知鱼
 * @Date: 2025-12-14 16:30:40
 * @LastEditTime: 2026-01-21 10:58:02
 * @LastEditors: 安知鱼
 */
package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/response"
)

// TermRequest 分类法条目的创建/更新请求体
type TermRequest struct {
	Taxonomy string `json:"taxonomy" binding:"required,oneof=category post_tag"`
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
}

// ListTerms 列出某分类法的全部条目
func (h *Handler) ListTerms(c *gin.Context) {
	taxonomy := c.Query("taxonomy")
	if taxonomy == "" {
		taxonomy = model.TaxonomyCategory
	}
	terms, err := h.contentService.ListTerms(c.Request.Context(), taxonomy)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取分类法条目失败: "+err.Error())
		return
	}
	response.Success(c, terms, "ok")
}

// CreateTerm 创建分类法条目
func (h *Handler) CreateTerm(c *gin.Context) {
	var req TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}
	term := &model.Term{Taxonomy: req.Taxonomy, Name: req.Name, Slug: req.Slug}
	if err := h.contentService.CreateTerm(c.Request.Context(), term); err != nil {
		response.Fail(c, http.StatusInternalServerError, "创建分类法条目失败: "+err.Error())
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, term, "分类法条目已创建")
}

// UpdateTerm 更新分类法条目
func (h *Handler) UpdateTerm(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的条目 ID")
		return
	}
	var req TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}
	term := &model.Term{ID: id, Taxonomy: req.Taxonomy, Name: req.Name, Slug: req.Slug}
	if err := h.contentService.UpdateTerm(c.Request.Context(), term); err != nil {
		h.fail(c, err, "更新分类法条目失败")
		return
	}
	response.Success(c, term, "分类法条目已更新")
}

// DeleteTerm 删除分类法条目
func (h *Handler) DeleteTerm(c *gin.Context) {
	h.withID(c, h.contentService.DeleteTerm, "分类法条目已删除")
}
