/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-12-15 10:30:47
 * @LastEditTime: 2026-01-21 15:44:20
 * @LastEditors: 安知鱼
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/internal/app/middleware"
	content_handler "github.com/anzhiyu-c/easy-sitemap/pkg/handler/content"
	setting_handler "github.com/anzhiyu-c/easy-sitemap/pkg/handler/setting"
	sitemap_handler "github.com/anzhiyu-c/easy-sitemap/pkg/handler/sitemap"
)

// NoCacheMiddleware 管理 API 的反缓存中间件，避免响应被 CDN 缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")

		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	sitemapHandler *sitemap_handler.Handler
	contentHandler *content_handler.Handler
	settingHandler *setting_handler.Handler
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	sitemapHandler *sitemap_handler.Handler,
	contentHandler *content_handler.Handler,
	settingHandler *setting_handler.Handler,
) *Router {
	return &Router{
		sitemapHandler: sitemapHandler,
		contentHandler: contentHandler,
		settingHandler: settingHandler,
	}
}

// Setup 注册全部路由
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Cors())

	r.registerSitemapRoutes(engine)

	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())
	r.registerSitemapAdminRoutes(apiGroup)
	r.registerContentRoutes(apiGroup)
	r.registerSettingRoutes(apiGroup)
}

// registerSitemapRoutes 公开的站点地图端点
func (r *Router) registerSitemapRoutes(engine *gin.Engine) {
	limited := engine.Group("/")
	limited.Use(middleware.SitemapRateLimit())

	// GET /sitemap.xml - 站点地图索引
	limited.GET("/sitemap.xml", r.sitemapHandler.GetIndex)
	// GET /easy-sitemap/:file - 各子站点地图
	limited.GET("/easy-sitemap/:file", r.sitemapHandler.GetSitemapFile)
	// GET /wp-sitemap.xml - 旧版地址重定向
	engine.GET("/wp-sitemap.xml", r.sitemapHandler.RedirectNative)
	// GET /robots.txt
	engine.GET("/robots.txt", r.sitemapHandler.GetRobots)
}

// registerSitemapAdminRoutes 站点地图管理端点
func (r *Router) registerSitemapAdminRoutes(api *gin.RouterGroup) {
	sitemapGroup := api.Group("/sitemap")
	{
		sitemapGroup.POST("/regenerate", r.sitemapHandler.Regenerate)
		sitemapGroup.POST("/cache/clear", r.sitemapHandler.ClearCache)
		sitemapGroup.GET("/stats", r.sitemapHandler.GetStats)
	}
}

// registerContentRoutes 内容与分类法管理端点
func (r *Router) registerContentRoutes(api *gin.RouterGroup) {
	contentGroup := api.Group("/content")
	{
		contentGroup.GET("", r.contentHandler.List)
		contentGroup.POST("", r.contentHandler.Create)
		contentGroup.GET("/:id", r.contentHandler.Get)
		contentGroup.PUT("/:id", r.contentHandler.Update)
		contentGroup.DELETE("/:id", r.contentHandler.Delete)
		contentGroup.POST("/:id/trash", r.contentHandler.Trash)
		contentGroup.POST("/:id/restore", r.contentHandler.Restore)
		contentGroup.PUT("/:id/exclude", r.contentHandler.SetExcluded)
	}

	termGroup := api.Group("/terms")
	{
		termGroup.GET("", r.contentHandler.ListTerms)
		termGroup.POST("", r.contentHandler.CreateTerm)
		termGroup.PUT("/:id", r.contentHandler.UpdateTerm)
		termGroup.DELETE("/:id", r.contentHandler.DeleteTerm)
	}
}

// registerSettingRoutes 配置管理端点
func (r *Router) registerSettingRoutes(api *gin.RouterGroup) {
	settingGroup := api.Group("/settings")
	{
		settingGroup.POST("/get", r.settingHandler.GetSettings)
		settingGroup.PUT("", r.settingHandler.UpdateSettings)
	}
}
