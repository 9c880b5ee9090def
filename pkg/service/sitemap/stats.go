/*
 * @Description: 站点地图运行统计：生成记录、命中计数、搜索引擎通知结果
 * @Author: 安知鱼
 * @Date: 2025-12-11 16:44:09
 * @LastEditTime: 2026-01-17 13:26:55
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
)

// GenerationRecord 某个站点地图最近一次生成的记录
type GenerationRecord struct {
	GeneratedAt time.Time `json:"generated_at"`
	EntryCount  int       `json:"entry_count"`
	DurationMS  int64     `json:"duration_ms"`
}

// PingOutcome 单个搜索引擎的一次通知结果
type PingOutcome struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PingRecord 最近一次搜索引擎通知
type PingRecord struct {
	At      time.Time              `json:"at"`
	Results map[string]PingOutcome `json:"results"`
}

// StatsData 统计数据的可序列化形态
type StatsData struct {
	Generations map[string]GenerationRecord `json:"generations"`
	Hits        map[string]int64            `json:"hits"`
	LastPing    *PingRecord                 `json:"last_ping,omitempty"`
}

// Stats 并发安全的统计聚合器，周期性持久化到配置表
type Stats struct {
	mu          sync.Mutex
	data        StatsData
	settingRepo repository.SettingRepository
}

// NewStats 创建统计聚合器
func NewStats(settingRepo repository.SettingRepository) *Stats {
	return &Stats{
		data: StatsData{
			Generations: make(map[string]GenerationRecord),
			Hits:        make(map[string]int64),
		},
		settingRepo: settingRepo,
	}
}

// Load 从配置表恢复上次持久化的统计数据，键不存在时保持零值
func (s *Stats) Load(ctx context.Context) error {
	settings, err := s.settingRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("读取统计数据失败: %w", err)
	}

	for _, row := range settings {
		if row.ConfigKey != constant.KeySitemapStats.String() || row.Value == "" {
			continue
		}
		var data StatsData
		if err := json.Unmarshal([]byte(row.Value), &data); err != nil {
			return fmt.Errorf("解析统计数据失败: %w", err)
		}
		s.mu.Lock()
		if data.Generations == nil {
			data.Generations = make(map[string]GenerationRecord)
		}
		if data.Hits == nil {
			data.Hits = make(map[string]int64)
		}
		s.data = data
		s.mu.Unlock()
		return nil
	}
	return nil
}

// RecordGeneration 记录一次生成：时间戳、叶子条目数、耗时
func (s *Stats) RecordGeneration(name string, entryCount int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Generations[name] = GenerationRecord{
		GeneratedAt: time.Now(),
		EntryCount:  entryCount,
		DurationMS:  duration.Milliseconds(),
	}
}

// AddHits 合并一批缓存命中计数（来自计数键收割）
func (s *Stats) AddHits(delta map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, n := range delta {
		s.data.Hits[name] += n
	}
}

// RecordPing 记录最近一次搜索引擎通知结果
func (s *Stats) RecordPing(rec PingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LastPing = &rec
}

// Snapshot 返回当前统计数据的深拷贝
func (s *Stats) Snapshot() StatsData {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := StatsData{
		Generations: make(map[string]GenerationRecord, len(s.data.Generations)),
		Hits:        make(map[string]int64, len(s.data.Hits)),
	}
	for k, v := range s.data.Generations {
		out.Generations[k] = v
	}
	for k, v := range s.data.Hits {
		out.Hits[k] = v
	}
	if s.data.LastPing != nil {
		rec := PingRecord{At: s.data.LastPing.At, Results: make(map[string]PingOutcome, len(s.data.LastPing.Results))}
		for k, v := range s.data.LastPing.Results {
			rec.Results[k] = v
		}
		out.LastPing = &rec
	}
	return out
}

// Flush 把当前统计数据持久化到配置表
func (s *Stats) Flush(ctx context.Context) error {
	snapshot := s.Snapshot()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("序列化统计数据失败: %w", err)
	}
	return s.settingRepo.Update(ctx, map[string]string{
		constant.KeySitemapStats.String(): string(raw),
	})
}
