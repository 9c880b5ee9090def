/*
 * @Description: 内容领域模型
 * @Author: 安知鱼
 * @Date: 2025-12-10 10:20:37
 * @LastEditTime: 2026-01-18 21:03:12
 * @LastEditors: 安知鱼
 */
package model

import "time"

// Status 内容条目的发布状态
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusTrashed   Status = "TRASHED"
)

// ContentFormat 内容正文的存储格式
type ContentFormat string

const (
	FormatHTML     ContentFormat = "html"
	FormatMarkdown ContentFormat = "markdown"
)

// 内置内容类型。其他类型（slug）由配置中的内容类型映射注册。
const (
	TypePost = "post"
	TypePage = "page"
)

// Taxonomy 分类法标识
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "post_tag"
)

// ContentItem 是一条内容记录（文章、页面或自定义类型）。
// 站点地图核心只读取它，唯一的例外是排除标记的切换。
type ContentItem struct {
	ID            int64         `json:"id"`
	Type          string        `json:"type"`
	Status        Status        `json:"status"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	ContentFormat ContentFormat `json:"content_format"`
	FeaturedImage string        `json:"featured_image"`
	// Excluded 为 true 时该条目不出现在任何站点地图中
	Excluded   bool      `json:"excluded"`
	Categories []Term    `json:"categories"`
	Tags       []Term    `json:"tags"`
	CreatedAt  time.Time `json:"created_at"` // 发布日期
	UpdatedAt  time.Time `json:"updated_at"`
}

// Term 分类法条目（分类或标签）
type Term struct {
	ID       int64  `json:"id"`
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	// Count 关联的已发布内容数，用于隐藏空条目
	Count int `json:"count"`
}

// ListContentOptions 内容查询过滤条件。零值字段不参与过滤。
type ListContentOptions struct {
	Type   string
	Status Status
	// Year/Month 按发布日期所在月份过滤（两者须同时给出）
	Year  int
	Month int
	// CategorySlug 按所属分类过滤
	CategorySlug string
	// After 只返回发布日期晚于该时刻的条目
	After time.Time
	// IncludeExcluded 为 false 时过滤掉排除标记为 true 的条目
	IncludeExcluded bool
}

// MonthBucket 某内容类型存在已发布内容的一个自然月
type MonthBucket struct {
	Year         int
	Month        time.Month
	LastModified time.Time
}

// Setting 一条持久化配置记录
type Setting struct {
	ConfigKey string
	Value     string
}

// PostEvent 内容条目事件的载荷
type PostEvent struct {
	Item *ContentItem
	// OldStatus 变更前的状态；创建事件中为空
	OldStatus Status
}

// TermEvent 分类法条目事件的载荷
type TermEvent struct {
	Term *Term
}

// SettingUpdatedEvent 配置更新事件的载荷
type SettingUpdatedEvent struct {
	Key   string
	Value string
}
