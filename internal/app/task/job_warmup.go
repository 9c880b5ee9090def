/*
 * @Description: 站点地图预热任务，低峰期重建全部缓存
 * @Author: 安知鱼
 * @Date: 2025-12-17 10:40:06
 * @LastEditTime: 2026-01-22 17:09:44
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log"

	"github.com/anzhiyu-c/easy-sitemap/pkg/service/sitemap"
)

// WarmupJob 每天在低峰期重建全部站点地图，
// 保证白天的爬虫请求大概率命中缓存。
type WarmupJob struct {
	sitemapSvc sitemap.Service
}

// NewWarmupJob 是任务的构造函数。
func NewWarmupJob(sitemapSvc sitemap.Service) *WarmupJob {
	return &WarmupJob{sitemapSvc: sitemapSvc}
}

// Name 方法返回任务的可读名称。
func (j *WarmupJob) Name() string {
	return "SitemapWarmupJob"
}

// Run 是 Job 接口要求实现的方法。
func (j *WarmupJob) Run() {
	count, err := j.sitemapSvc.WarmCache(context.Background())
	if err != nil {
		log.Printf("错误: 任务 '%s' 预热站点地图失败: %v", j.Name(), err)
		return
	}
	log.Printf("信息: 任务 '%s' 已预热 %d 个站点地图。", j.Name(), count)
}
