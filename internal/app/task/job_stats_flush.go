/*
 * @Description: 统计刷写任务，收割命中计数并持久化统计数据
 * @Author: 安知鱼
 * @Date: 2025-12-17 10:12:30
 * @LastEditTime: 2026-01-22 17:05:21
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log"

	"github.com/anzhiyu-c/easy-sitemap/pkg/service/sitemap"
)

// StatsFlushJob 周期性地把缓存里的命中计数合并进统计数据并落库。
type StatsFlushJob struct {
	sitemapSvc sitemap.Service
}

// NewStatsFlushJob 是任务的构造函数。
func NewStatsFlushJob(sitemapSvc sitemap.Service) *StatsFlushJob {
	return &StatsFlushJob{sitemapSvc: sitemapSvc}
}

// Name 方法返回任务的可读名称。
func (j *StatsFlushJob) Name() string {
	return "SitemapStatsFlushJob"
}

// Run 是 Job 接口要求实现的方法。
func (j *StatsFlushJob) Run() {
	if err := j.sitemapSvc.FlushHitCounters(context.Background()); err != nil {
		log.Printf("错误: 任务 '%s' 刷写统计数据失败: %v", j.Name(), err)
	}
}
