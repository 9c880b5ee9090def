/*
 * @Description: 内容仓储接口
 * @Author: 安知鱼
 * @Date: 2025-12-10 10:31:09
 * @LastEditTime: 2026-01-18 21:05:47
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
)

// ContentRepository 定义了内容条目的查询与维护接口。
// 站点地图核心只使用查询方法；写入方法服务于内容管理接口，
// 由它们触发内容变更事件。
type ContentRepository interface {
	// List 按条件返回内容条目，按更新时间倒序
	List(ctx context.Context, opts *model.ListContentOptions) ([]*model.ContentItem, error)
	// GetByID 按主键返回条目，不存在时返回 constant.ErrNotFound
	GetByID(ctx context.Context, id int64) (*model.ContentItem, error)
	// ListMonths 返回某内容类型存在已发布内容的所有自然月，按时间倒序
	ListMonths(ctx context.Context, contentType string) ([]model.MonthBucket, error)

	Create(ctx context.Context, item *model.ContentItem) error
	Update(ctx context.Context, item *model.ContentItem) error
	Delete(ctx context.Context, id int64) error
	// SetStatus 变更发布状态（用于回收/恢复）
	SetStatus(ctx context.Context, id int64, status model.Status) error
	// SetExcluded 切换站点地图排除标记
	SetExcluded(ctx context.Context, id int64, excluded bool) error
}

// TermRepository 定义了分类法条目的查询与维护接口。
type TermRepository interface {
	// ListByTaxonomy 返回某分类法的全部条目，按名称排序
	ListByTaxonomy(ctx context.Context, taxonomy string) ([]*model.Term, error)
	// GetBySlug 按 slug 返回条目，不存在时返回 constant.ErrNotFound
	GetBySlug(ctx context.Context, taxonomy, slug string) (*model.Term, error)
	// GetByID 按主键返回条目，不存在时返回 constant.ErrNotFound
	GetByID(ctx context.Context, id int64) (*model.Term, error)

	Create(ctx context.Context, term *model.Term) error
	Update(ctx context.Context, term *model.Term) error
	Delete(ctx context.Context, id int64) error
}

// SettingRepository 定义了配置持久化接口。
type SettingRepository interface {
	// FindAll 返回全部持久化配置项
	FindAll(ctx context.Context) ([]*model.Setting, error)
	// Update 批量写入配置项（不存在时插入）
	Update(ctx context.Context, settings map[string]string) error
}
