/*
 * @Description: 内容管理处理器，增删改与状态切换
 * @Author: 安知鱼
 * @Date: 2025-12-14 14:52:19
 * @LastEditTime: 2026-01-21 10:26:44
 * @LastEditors: 安知鱼
 */
package content

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/response"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/content"
)

// Handler 内容管理处理器
type Handler struct {
	contentService content.Service
}

// NewHandler 创建内容管理处理器
func NewHandler(contentService content.Service) *Handler {
	return &Handler{contentService: contentService}
}

// ContentRequest 内容条目的创建/更新请求体
type ContentRequest struct {
	Type          string   `json:"type" binding:"required"`
	Status        string   `json:"status"`
	Title         string   `json:"title" binding:"required"`
	Slug          string   `json:"slug" binding:"required"`
	Content       string   `json:"content"`
	ContentFormat string   `json:"content_format"`
	FeaturedImage string   `json:"featured_image"`
	Excluded      bool     `json:"excluded"`
	Categories    []string `json:"categories"`
	Tags          []string `json:"tags"`
	PublishedAt   string   `json:"published_at"`
}

// toModel 把请求体转换为领域模型
func (r *ContentRequest) toModel(id int64) (*model.ContentItem, error) {
	item := &model.ContentItem{
		ID:            id,
		Type:          r.Type,
		Status:        model.Status(r.Status),
		Title:         r.Title,
		Slug:          r.Slug,
		Content:       r.Content,
		ContentFormat: model.ContentFormat(r.ContentFormat),
		FeaturedImage: r.FeaturedImage,
		Excluded:      r.Excluded,
	}
	if item.Status == "" {
		item.Status = model.StatusDraft
	}
	if item.ContentFormat == "" {
		item.ContentFormat = model.FormatHTML
	}
	for _, slug := range r.Categories {
		item.Categories = append(item.Categories, model.Term{Taxonomy: model.TaxonomyCategory, Slug: slug})
	}
	for _, slug := range r.Tags {
		item.Tags = append(item.Tags, model.Term{Taxonomy: model.TaxonomyTag, Slug: slug})
	}
	if r.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, r.PublishedAt)
		if err != nil {
			return nil, err
		}
		item.CreatedAt = t
	}
	return item, nil
}

// List 按条件列出内容条目
func (h *Handler) List(c *gin.Context) {
	opts := &model.ListContentOptions{
		Type:            c.Query("type"),
		Status:          model.Status(c.Query("status")),
		IncludeExcluded: true, // 管理端默认可见全部
	}
	items, err := h.contentService.List(c.Request.Context(), opts)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取内容列表失败: "+err.Error())
		return
	}
	response.Success(c, items, "ok")
}

// Get 按 ID 获取内容条目
func (h *Handler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的内容 ID")
		return
	}
	item, err := h.contentService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "获取内容失败")
		return
	}
	response.Success(c, item, "ok")
}

// Create 创建内容条目
func (h *Handler) Create(c *gin.Context) {
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}
	item, err := req.toModel(0)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的发布时间: "+err.Error())
		return
	}
	if err := h.contentService.Create(c.Request.Context(), item); err != nil {
		response.Fail(c, http.StatusInternalServerError, "创建内容失败: "+err.Error())
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, item, "内容已创建")
}

// Update 更新内容条目
func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的内容 ID")
		return
	}
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}
	item, err := req.toModel(id)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的发布时间: "+err.Error())
		return
	}
	if err := h.contentService.Update(c.Request.Context(), item); err != nil {
		h.fail(c, err, "更新内容失败")
		return
	}
	response.Success(c, item, "内容已更新")
}

// Delete 永久删除内容条目
func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的内容 ID")
		return
	}
	if err := h.contentService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "删除内容失败")
		return
	}
	response.Success(c, nil, "内容已删除")
}

// Trash 把内容条目移入回收站
func (h *Handler) Trash(c *gin.Context) {
	h.withID(c, h.contentService.Trash, "内容已移入回收站")
}

// Restore 从回收站恢复内容条目
func (h *Handler) Restore(c *gin.Context) {
	h.withID(c, h.contentService.Restore, "内容已恢复")
}

// SetExcluded 切换站点地图排除标记
func (h *Handler) SetExcluded(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的内容 ID")
		return
	}
	var req struct {
		Excluded bool `json:"excluded"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}
	if err := h.contentService.SetExcluded(c.Request.Context(), id, req.Excluded); err != nil {
		h.fail(c, err, "更新排除标记失败")
		return
	}
	response.Success(c, gin.H{"excluded": req.Excluded}, "排除标记已更新")
}

// withID 解析路径中的 ID 并执行单参数操作
func (h *Handler) withID(c *gin.Context, fn func(ctx context.Context, id int64) error, okMessage string) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的内容 ID")
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		h.fail(c, err, "操作失败")
		return
	}
	response.Success(c, nil, okMessage)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	if errors.Is(err, constant.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "内容不存在")
		return
	}
	response.Fail(c, http.StatusInternalServerError, message+": "+err.Error())
}
