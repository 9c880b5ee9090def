/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-12-17 11:02:19
 * @LastEditTime: 2026-01-22 17:20:38
 * @LastEditors: 安知鱼
 */
package task

import (
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/anzhiyu-c/easy-sitemap/pkg/service/sitemap"
)

// Scheduler 封装了 cron 实例和其依赖。
// 它是整个定时任务模块的核心协调者，负责任务的注册、启动和停止。
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	sitemapSvc sitemap.Service
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(sitemapSvc sitemap.Service) *Scheduler {
	// 创建一个 slog.Logger 实例，并为其添加一个固定的 "system":"cron" 属性。
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		cron:       c,
		logger:     logger,
		sitemapSvc: sitemapSvc,
	}
}

// RegisterJobs 在调度器中注册所有定义好的定时任务。
func (s *Scheduler) RegisterJobs() {
	s.logger.Info("Registering all periodic jobs...")

	// --- 任务1: 刷写站点地图统计数据 ---
	statsFlushJob := NewStatsFlushJob(s.sitemapSvc)
	if _, err := s.cron.AddJob("0 * * * * *", statsFlushJob); err != nil {
		s.logger.Error("Failed to add 'SitemapStatsFlushJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'SitemapStatsFlushJob'", "schedule", "every minute")

	// --- 任务2: 低峰期预热站点地图缓存 ---
	warmupJob := NewWarmupJob(s.sitemapSvc)
	if _, err := s.cron.AddJob("0 0 3 * * *", warmupJob); err != nil {
		s.logger.Error("Failed to add 'SitemapWarmupJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'SitemapWarmupJob'", "schedule", "every day at 3:00:00 AM")

	s.logger.Info("All periodic jobs registered.")
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
