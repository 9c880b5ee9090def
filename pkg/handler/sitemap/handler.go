/*
 * @Description: 站点地图处理器
 * @Author: 安知鱼
 * @Date: 2025-12-13 11:24:05
 * @LastEditTime: 2026-01-20 16:52:33
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/sitemap"
)

// Handler 站点地图处理器
type Handler struct {
	sitemapService sitemap.Service
}

// NewHandler 创建站点地图处理器
func NewHandler(sitemapService sitemap.Service) *Handler {
	return &Handler{
		sitemapService: sitemapService,
	}
}

// GetIndex 获取站点地图索引
// @Summary      获取站点地图索引
// @Description  获取XML格式的站点地图索引
// @Tags         站点地图
// @Produce      xml
// @Success      200  {string}  string  "XML格式的站点地图索引"
// @Router       /sitemap.xml [get]
func (h *Handler) GetIndex(c *gin.Context) {
	h.serve(c, sitemap.Request{Type: sitemap.TypeIndex})
}

// GetSitemapFile 获取子站点地图
// @Summary      获取子站点地图
// @Description  按文件名获取单个子站点地图，未知文件名返回 404
// @Tags         站点地图
// @Produce      xml
// @Param        file  path  string  true  "站点地图文件名，如 posts-index.xml"
// @Success      200  {string}  string  "XML格式的站点地图"
// @Failure      404  {string}  string  "站点地图不存在"
// @Router       /easy-sitemap/{file} [get]
func (h *Handler) GetSitemapFile(c *gin.Context) {
	file := c.Param("file")
	if file == "sitemap.xsl" {
		h.serveStylesheet(c)
		return
	}

	req, err := h.sitemapService.ResolveFile(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.String(http.StatusInternalServerError, "生成站点地图失败")
		return
	}
	h.serve(c, req)
}

// RedirectNative 把旧版原生站点地图地址重定向到索引
// @Summary      旧版站点地图重定向
// @Tags         站点地图
// @Success      301
// @Router       /wp-sitemap.xml [get]
func (h *Handler) RedirectNative(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/sitemap.xml")
}

// GetRobots 获取robots.txt
// @Summary      获取robots.txt
// @Description  获取搜索引擎爬虫规则文件，按配置附带 Sitemap 声明
// @Tags         站点地图
// @Produce      plain
// @Success      200  {string}  string  "robots.txt内容"
// @Router       /robots.txt [get]
func (h *Handler) GetRobots(c *gin.Context) {
	robotsContent := h.sitemapService.RobotsTxt(c.Request.Context())

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "public, max-age=86400") // 24小时缓存

	c.String(http.StatusOK, robotsContent)
}

// serve 输出一个站点地图文档及其响应头
func (h *Handler) serve(c *gin.Context, req sitemap.Request) {
	result, err := h.sitemapService.Serve(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.String(http.StatusInternalServerError, "生成站点地图失败")
		return
	}

	maxAge := int(result.TTL.Seconds())
	c.Header("Content-Type", "application/xml; charset=UTF-8")
	c.Header("X-Robots-Tag", "noindex, follow")
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	c.Header("Expires", time.Now().Add(result.TTL).UTC().Format(http.TimeFormat))

	c.Data(http.StatusOK, "application/xml; charset=UTF-8", result.Content)
}

// serveStylesheet 输出站点地图的 XSL 样式表
func (h *Handler) serveStylesheet(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "text/xsl; charset=UTF-8", []byte(sitemapStylesheet))
}
