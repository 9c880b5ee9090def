/*
 * @Description: 站点地图服务：缓存编排、请求解析、重建与清理
 * @Author: 安知鱼
 * @Date: 2025-12-11 10:09:27
 * @LastEditTime: 2026-01-19 23:17:40
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/setting"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/utility"
)

// Result 一次站点地图请求的响应内容
type Result struct {
	Content   []byte
	TTL       time.Duration
	FromCache bool
}

// Service 站点地图服务接口
type Service interface {
	// ResolveFile 把公开路由下的文件名解析为站点地图请求，
	// 未知名字或非法参数返回 constant.ErrNotFound。
	ResolveFile(ctx context.Context, file string) (Request, error)
	// Serve 处理一次站点地图请求：命中缓存则原样返回，否则生成并写入缓存
	Serve(ctx context.Context, req Request) (*Result, error)
	// Regenerate 清空全部站点地图缓存，文档在下次请求时重新生成，
	// 不做预热，返回清除数量
	Regenerate(ctx context.Context) (int, error)
	// WarmCache 重建当前配置下可达的全部站点地图并写入缓存，返回数量
	WarmCache(ctx context.Context) (int, error)
	// ClearCache 删除全部已缓存的站点地图文档，返回删除数量
	ClearCache(ctx context.Context) (int, error)
	// FlushHitCounters 收割缓存命中计数并随统计数据一起持久化
	FlushHitCounters(ctx context.Context) error
	// RobotsTxt 生成 robots.txt 内容
	RobotsTxt(ctx context.Context) string
	// IndexURL 站点地图索引的绝对地址
	IndexURL() string
	Stats() *Stats
}

// service 站点地图服务实现
type service struct {
	renderer   *renderer
	cache      utility.CacheService
	termRepo   repository.TermRepository
	settingSvc setting.SettingService
	stats      *Stats
}

// NewService 创建站点地图服务
func NewService(
	contentRepo repository.ContentRepository,
	termRepo repository.TermRepository,
	settingSvc setting.SettingService,
	cache utility.CacheService,
	stats *Stats,
) Service {
	return &service{
		renderer:   newRenderer(contentRepo, termRepo),
		cache:      cache,
		termRepo:   termRepo,
		settingSvc: settingSvc,
		stats:      stats,
	}
}

var postsByDateFileRe = regexp.MustCompile(`^posts-(\d{4})-(\d{2})$`)

// ResolveFile 解析文件名。匹配顺序：固定名字、按月文件、按分类文件、
// 自定义内容类型；任何一步校验失败都返回 404 而不是空文档。
func (s *service) ResolveFile(ctx context.Context, file string) (Request, error) {
	name := strings.TrimSuffix(file, ".xml")
	if name == file || name == "" {
		return Request{}, constant.ErrNotFound
	}

	switch name {
	case "posts": // 旧版单文件名，等价于 posts-index
		return Request{Type: TypePostsIndex}, nil
	case string(TypePostsIndex):
		return Request{Type: TypePostsIndex}, nil
	case string(TypePages):
		return Request{Type: TypePages}, nil
	case string(TypeTags):
		return Request{Type: TypeTags}, nil
	case string(TypeCategories):
		return Request{Type: TypeCategories}, nil
	case string(TypeGeneral):
		return Request{Type: TypeGeneral}, nil
	case string(TypeNews):
		return Request{Type: TypeNews}, nil
	}

	if m := postsByDateFileRe.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if year < 1970 || year > 2100 || month < 1 || month > 12 {
			return Request{}, constant.ErrNotFound
		}
		return Request{Type: TypePostsByDate, Year: year, Month: time.Month(month)}, nil
	}

	if slug, ok := strings.CutPrefix(name, "posts-"); ok {
		term, err := s.termRepo.GetBySlug(ctx, model.TaxonomyCategory, slug)
		if err != nil {
			// 查询本身失败和分类不存在要区分开，前者不能当 404 吞掉
			if errors.Is(err, constant.ErrNotFound) {
				return Request{}, constant.ErrNotFound
			}
			return Request{}, fmt.Errorf("查询分类 %s 失败: %w", slug, err)
		}
		if term == nil {
			return Request{}, constant.ErrNotFound
		}
		return Request{Type: TypePostsByCategory, CategorySlug: slug}, nil
	}

	snap := newSnapshot(s.settingSvc)
	if snap.customTypeEnabled(name) {
		return Request{Type: TypePostType, PostTypeSlug: name}, nil
	}
	return Request{}, constant.ErrNotFound
}

// enabled 判断请求在当前配置下是否可达
func (s *service) enabled(req Request, snap *snapshot) bool {
	switch req.Type {
	case TypeIndex:
		return true
	case TypePostsIndex:
		return snap.EnablePosts && snap.Organization == constant.OrgSingle
	case TypePostsByDate:
		return snap.EnablePosts && snap.Organization == constant.OrgByDate
	case TypePostsByCategory:
		return snap.EnablePosts && snap.Organization == constant.OrgByCategory
	case TypePages:
		return snap.EnablePages
	case TypeTags:
		return snap.EnableTags
	case TypeCategories:
		return snap.EnableCategories
	case TypeGeneral:
		return snap.EnableGeneral
	case TypeNews:
		return snap.EnableNews
	case TypePostType:
		return snap.customTypeEnabled(req.PostTypeSlug)
	default:
		return false
	}
}

// Serve 处理一次站点地图请求。
// 缓存读失败按未命中处理，缓存写失败不影响本次响应。
func (s *service) Serve(ctx context.Context, req Request) (*Result, error) {
	snap := newSnapshot(s.settingSvc)
	if !s.enabled(req, snap) {
		return nil, constant.ErrNotFound
	}

	cached, err := s.cache.Get(ctx, req.CacheKey())
	if err != nil {
		log.Printf("警告: 读取站点地图缓存失败 (key: %s): %v", req.CacheKey(), err)
	}
	if cached != "" {
		// 命中：原样返回缓存字节，不重新生成
		s.bumpHits(ctx, req)
		return &Result{Content: []byte(cached), TTL: snap.TTL, FromCache: true}, nil
	}

	start := time.Now()
	body, count, err := s.renderer.Build(ctx, req, snap)
	if err != nil {
		return nil, fmt.Errorf("生成站点地图 %s 失败: %w", req.Name(), err)
	}

	if err := s.cache.Set(ctx, req.CacheKey(), string(body), snap.TTL); err != nil {
		log.Printf("警告: 写入站点地图缓存失败 (key: %s): %v", req.CacheKey(), err)
	}
	s.stats.RecordGeneration(req.Name(), count, time.Since(start))
	s.bumpHits(ctx, req)

	return &Result{Content: body, TTL: snap.TTL, FromCache: false}, nil
}

// bumpHits 每次成功响应都累加请求计数，命中与否都算，失败只记日志
func (s *service) bumpHits(ctx context.Context, req Request) {
	if _, err := s.cache.Increment(ctx, req.hitKey()); err != nil {
		log.Printf("警告: 累加请求计数失败 (key: %s): %v", req.hitKey(), err)
	}
}

// reachableRequests 枚举当前配置下可达的全部站点地图请求
func (s *service) reachableRequests(ctx context.Context, snap *snapshot) ([]Request, error) {
	reqs := []Request{{Type: TypeIndex}}

	if snap.EnablePosts {
		switch snap.Organization {
		case constant.OrgByDate:
			buckets, err := s.renderer.contentRepo.ListMonths(ctx, model.TypePost)
			if err != nil {
				return nil, err
			}
			for _, b := range buckets {
				reqs = append(reqs, Request{Type: TypePostsByDate, Year: b.Year, Month: b.Month})
			}
		case constant.OrgByCategory:
			terms, err := s.termRepo.ListByTaxonomy(ctx, model.TaxonomyCategory)
			if err != nil {
				return nil, err
			}
			for _, t := range terms {
				if t.Count > 0 {
					reqs = append(reqs, Request{Type: TypePostsByCategory, CategorySlug: t.Slug})
				}
			}
		default:
			reqs = append(reqs, Request{Type: TypePostsIndex})
		}
	}
	if snap.EnablePages {
		reqs = append(reqs, Request{Type: TypePages})
	}
	if snap.EnableTags {
		reqs = append(reqs, Request{Type: TypeTags})
	}
	if snap.EnableCategories {
		reqs = append(reqs, Request{Type: TypeCategories})
	}
	if snap.EnableGeneral {
		reqs = append(reqs, Request{Type: TypeGeneral})
	}
	if snap.EnableNews {
		reqs = append(reqs, Request{Type: TypeNews})
	}
	for slug, on := range snap.PostTypes {
		if on && slug != model.TypePost && slug != model.TypePage {
			reqs = append(reqs, Request{Type: TypePostType, PostTypeSlug: slug})
		}
	}
	return reqs, nil
}

// Regenerate 只清空缓存，不做预热：下一次请求各文档时再按需生成。
// 可重复执行。
func (s *service) Regenerate(ctx context.Context) (int, error) {
	return s.ClearCache(ctx)
}

// WarmCache 重建全部可达的站点地图并写入缓存，供低峰期预热任务调用
func (s *service) WarmCache(ctx context.Context) (int, error) {
	snap := newSnapshot(s.settingSvc)
	reqs, err := s.reachableRequests(ctx, snap)
	if err != nil {
		return 0, fmt.Errorf("枚举站点地图失败: %w", err)
	}

	warmed := 0
	for _, req := range reqs {
		start := time.Now()
		body, count, err := s.renderer.Build(ctx, req, snap)
		if err != nil {
			return warmed, fmt.Errorf("重建站点地图 %s 失败: %w", req.Name(), err)
		}
		if err := s.cache.Set(ctx, req.CacheKey(), string(body), snap.TTL); err != nil {
			log.Printf("警告: 写入站点地图缓存失败 (key: %s): %v", req.CacheKey(), err)
		}
		s.stats.RecordGeneration(req.Name(), count, time.Since(start))
		warmed++
	}
	return warmed, nil
}

// ClearCache 删除全部站点地图文档缓存，保留命中计数键
func (s *service) ClearCache(ctx context.Context) (int, error) {
	keys, err := s.cache.Scan(ctx, CacheKeyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("扫描缓存键失败: %w", err)
	}

	var docKeys []string
	for _, key := range keys {
		if strings.HasPrefix(key, hitKeyPrefix) {
			continue
		}
		docKeys = append(docKeys, key)
	}
	if len(docKeys) == 0 {
		return 0, nil
	}
	if err := s.cache.Delete(ctx, docKeys...); err != nil {
		return 0, fmt.Errorf("删除缓存键失败: %w", err)
	}
	return len(docKeys), nil
}

// FlushHitCounters 收割全部命中计数键，合并进统计并持久化
func (s *service) FlushHitCounters(ctx context.Context) error {
	keys, err := s.cache.Scan(ctx, hitKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("扫描命中计数键失败: %w", err)
	}
	if len(keys) > 0 {
		counts, err := s.cache.GetAndDeleteMany(ctx, keys)
		if err != nil {
			return fmt.Errorf("收割命中计数失败: %w", err)
		}
		delta := make(map[string]int64, len(counts))
		for key, n := range counts {
			delta[strings.TrimPrefix(key, hitKeyPrefix)] = int64(n)
		}
		s.stats.AddHits(delta)
	}
	return s.stats.Flush(ctx)
}

// RobotsTxt 生成 robots.txt，按配置追加 Sitemap 声明
func (s *service) RobotsTxt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n\nDisallow: /api/\n")
	if s.settingSvc.GetBool(constant.KeyAddToRobots.String()) {
		fmt.Fprintf(&b, "\nSitemap: %s\n", s.IndexURL())
	}
	return b.String()
}

// IndexURL 站点地图索引的绝对地址
func (s *service) IndexURL() string {
	base := strings.TrimSuffix(s.settingSvc.Get(constant.KeySiteURL.String()), "/")
	return base + "/sitemap.xml"
}

// Stats 返回统计聚合器
func (s *service) Stats() *Stats {
	return s.stats
}
