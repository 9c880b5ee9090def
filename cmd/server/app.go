/*
 * @Description: 应用装配，负责全部组件的初始化和依赖注入
 * @Author: 安知鱼
 * @Date: 2026-02-10 10:12:40
 * @LastEditTime: 2026-08-21 17:03:11
 * @LastEditors: 安知鱼
 */
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/internal/app/task"
	"github.com/anzhiyu-c/easy-sitemap/internal/infra/persistence/database"
	"github.com/anzhiyu-c/easy-sitemap/internal/infra/persistence/sqlrepo"
	"github.com/anzhiyu-c/easy-sitemap/internal/infra/router"
	"github.com/anzhiyu-c/easy-sitemap/internal/pkg/event"
	"github.com/anzhiyu-c/easy-sitemap/pkg/config"
	content_handler "github.com/anzhiyu-c/easy-sitemap/pkg/handler/content"
	setting_handler "github.com/anzhiyu-c/easy-sitemap/pkg/handler/setting"
	sitemap_handler "github.com/anzhiyu-c/easy-sitemap/pkg/handler/sitemap"
	content_service "github.com/anzhiyu-c/easy-sitemap/pkg/service/content"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/setting"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/sitemap"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg        *config.Config
	engine     *gin.Engine
	sqlDB      *sql.DB
	scheduler  *task.Scheduler
	eventBus   *event.EventBus
	pinger     *sitemap.PingScheduler
	settingSvc setting.SettingService
	sitemapSvc sitemap.Service
	contentSvc content_service.Service
	cacheSvc   utility.CacheService
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, func(), error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// --- Phase 2: 初始化基础设施 ---
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}
	dialect := database.DialectFromConfig(cfg)
	if err := sqlrepo.Migrate(context.Background(), sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库初始化失败: %w", err)
	}

	// 尝试连接 Redis（如果失败，将自动降级到内存缓存）
	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	eventBus := event.NewEventBus()

	// --- Phase 3: 初始化数据仓库层 ---
	contentRepo := sqlrepo.NewContentRepository(sqlDB, dialect)
	termRepo := sqlrepo.NewTermRepository(sqlDB, dialect, contentRepo)
	settingRepo := sqlrepo.NewSettingRepository(sqlDB, dialect)

	// --- Phase 4: 初始化业务逻辑层 ---
	settingSvc := setting.NewSettingService(settingRepo, eventBus)
	if err := settingSvc.LoadAllSettings(context.Background()); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("加载站点配置失败: %w", err)
	}

	stats := sitemap.NewStats(settingRepo)
	if err := stats.Load(context.Background()); err != nil {
		log.Printf("警告: 加载站点地图统计数据失败: %v", err)
	}

	sitemapSvc := sitemap.NewService(contentRepo, termRepo, settingSvc, cacheSvc, stats)
	pinger := sitemap.NewPingScheduler(settingSvc, stats, sitemapSvc.IndexURL)

	// 注册缓存失效监听，内容和配置的变更会驱动缓存清理与搜索引擎通知
	invalidator := sitemap.NewInvalidator(cacheSvc, pinger)
	invalidator.Register(eventBus)

	contentSvc := content_service.NewService(contentRepo, termRepo, eventBus)

	// --- Phase 5: 初始化接口层 ---
	sitemapHandler := sitemap_handler.NewHandler(sitemapSvc)
	contentHandler := content_handler.NewHandler(contentSvc)
	settingHandler := setting_handler.NewHandler(settingSvc)

	appRouter := router.NewRouter(sitemapHandler, contentHandler, settingHandler)

	if cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	appRouter.Setup(engine)

	// --- Phase 6: 初始化后台任务 ---
	scheduler := task.NewScheduler(sitemapSvc)

	app := &App{
		cfg:        cfg,
		engine:     engine,
		sqlDB:      sqlDB,
		scheduler:  scheduler,
		eventBus:   eventBus,
		pinger:     pinger,
		settingSvc: settingSvc,
		sitemapSvc: sitemapSvc,
		contentSvc: contentSvc,
		cacheSvc:   cacheSvc,
	}

	cleanup := func() {
		log.Println("执行清理操作：关闭数据库连接...")
		sqlDB.Close()
		if redisClient != nil {
			log.Println("关闭 Redis 连接...")
			redisClient.Close()
		}
	}

	return app, cleanup, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) DB() *sql.DB {
	return a.sqlDB
}

func (a *App) SettingService() setting.SettingService {
	return a.settingSvc
}

func (a *App) SitemapService() sitemap.Service {
	return a.sitemapSvc
}

func (a *App) ContentService() content_service.Service {
	return a.contentSvc
}

func (a *App) CacheService() utility.CacheService {
	return a.cacheSvc
}

// EventBus 返回事件总线，用于发布和订阅事件
func (a *App) EventBus() *event.EventBus {
	return a.eventBus
}

func (a *App) Run() error {
	a.scheduler.RegisterJobs()
	a.scheduler.Start()
	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8092"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		log.Println("任务调度器已停止。")
	}
	if a.pinger != nil {
		a.pinger.Stop()
	}
	if a.eventBus != nil {
		a.eventBus.Shutdown()
	}
}
