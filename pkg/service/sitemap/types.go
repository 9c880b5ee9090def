/*
 * @Description: 站点地图类型与请求定义
 * @Author: 安知鱼
 * @Date: 2025-12-09 09:12:44
 * @LastEditTime: 2026-01-15 22:08:31
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"fmt"
	"time"
)

// Type 站点地图类型枚举
type Type string

const (
	TypeIndex           Type = "sitemap-index"
	TypePostsIndex      Type = "posts-index"
	TypePostsByDate     Type = "posts-by-date"
	TypePostsByCategory Type = "posts-by-category"
	TypePages           Type = "pages"
	TypeTags            Type = "tags"
	TypeCategories      Type = "categories"
	TypeGeneral         Type = "general"
	TypeNews            Type = "news"
	TypePostType        Type = "post-type"
)

// CacheKeyPrefix 所有站点地图缓存键的统一前缀，清缓存时按前缀扫描
const CacheKeyPrefix = "easy_sitemap:"

// hitKeyPrefix 访问计数键前缀，由统计刷写任务批量收割
const hitKeyPrefix = CacheKeyPrefix + "hits:"

// Request 一次站点地图请求：类型加上该类型需要的参数
type Request struct {
	Type Type

	// posts-by-date 的年月参数
	Year  int
	Month time.Month

	// posts-by-category 的分类别名
	CategorySlug string

	// post-type 的自定义内容类型别名
	PostTypeSlug string
}

// Name 返回请求的规范名，用作缓存键后缀和统计维度。
// 带参数的类型会把参数编进名字里，保证互不冲突。
func (r Request) Name() string {
	switch r.Type {
	case TypePostsByDate:
		return fmt.Sprintf("posts-%04d-%02d", r.Year, int(r.Month))
	case TypePostsByCategory:
		return "posts-" + r.CategorySlug
	case TypePostType:
		return "post-type-" + r.PostTypeSlug
	default:
		return string(r.Type)
	}
}

// CacheKey 返回请求对应的缓存键
func (r Request) CacheKey() string {
	return CacheKeyPrefix + r.Name()
}

// hitKey 返回请求对应的访问计数键
func (r Request) hitKey() string {
	return hitKeyPrefix + r.Name()
}

// FileName 返回请求在公开路由下的文件名。
// 索引固定在 /sitemap.xml，其余在 /easy-sitemap/<file> 下。
func (r Request) FileName() string {
	if r.Type == TypeIndex {
		return "sitemap.xml"
	}
	switch r.Type {
	case TypePostsByDate:
		return fmt.Sprintf("posts-%04d-%02d.xml", r.Year, int(r.Month))
	case TypePostsByCategory:
		return "posts-" + r.CategorySlug + ".xml"
	case TypePostType:
		return r.PostTypeSlug + ".xml"
	default:
		return string(r.Type) + ".xml"
	}
}

// TTL 边界：低于下限按下限处理，高于上限按上限处理
const (
	minCacheTTL     = 60 * time.Second
	maxCacheTTL     = 7 * 24 * time.Hour
	defaultCacheTTL = time.Hour
)

// clampTTL 把配置的缓存时长收敛到允许的区间内
func clampTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultCacheTTL
	}
	if d < minCacheTTL {
		return minCacheTTL
	}
	if d > maxCacheTTL {
		return maxCacheTTL
	}
	return d
}
