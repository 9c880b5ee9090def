/*
 * @Description: 内容仓储的 database/sql 实现
 * @Author: 安知鱼
 * @Date: 2025-12-16 11:15:28
 * @LastEditTime: 2026-01-22 14:46:10
 * @LastEditors: 安知鱼
 */
package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
)

type contentRepo struct {
	db      *sql.DB
	dialect string
}

// NewContentRepository 创建内容仓储
func NewContentRepository(db *sql.DB, dialect string) repository.ContentRepository {
	return &contentRepo{db: db, dialect: dialect}
}

const contentColumns = "id, type, status, title, slug, content, content_format, featured_image, excluded, categories, tags, created_at, updated_at"

// scanItem 从一行结果扫描出内容条目
func scanItem(scan func(dest ...interface{}) error) (*model.ContentItem, error) {
	var item model.ContentItem
	var content, featuredImage, categories, tags sql.NullString
	if err := scan(
		&item.ID, &item.Type, &item.Status, &item.Title, &item.Slug,
		&content, &item.ContentFormat, &featuredImage, &item.Excluded,
		&categories, &tags, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.Content = content.String
	item.FeaturedImage = featuredImage.String
	if categories.String != "" {
		if err := json.Unmarshal([]byte(categories.String), &item.Categories); err != nil {
			return nil, fmt.Errorf("解析分类字段失败: %w", err)
		}
	}
	if tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &item.Tags); err != nil {
			return nil, fmt.Errorf("解析标签字段失败: %w", err)
		}
	}
	return &item, nil
}

// List 按条件返回内容条目。类型与状态在 SQL 层过滤，
// 其余条件在 Go 侧过滤，保证三种方言行为一致。
func (r *contentRepo) List(ctx context.Context, opts *model.ListContentOptions) ([]*model.ContentItem, error) {
	query := "SELECT " + contentColumns + " FROM content_items"
	var conds []string
	var args []interface{}
	if opts.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, opts.Type)
	}
	if opts.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(opts.Status))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY updated_at DESC"

	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, query), args...)
	if err != nil {
		return nil, fmt.Errorf("查询内容列表失败: %w", err)
	}
	defer rows.Close()

	var items []*model.ContentItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		if !matchOptions(item, opts) {
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// matchOptions 应用 SQL 层之外的过滤条件
func matchOptions(item *model.ContentItem, opts *model.ListContentOptions) bool {
	if !opts.IncludeExcluded && item.Excluded {
		return false
	}
	if opts.Year != 0 {
		if item.CreatedAt.Year() != opts.Year || int(item.CreatedAt.Month()) != opts.Month {
			return false
		}
	}
	if opts.CategorySlug != "" {
		found := false
		for _, cat := range item.Categories {
			if cat.Slug == opts.CategorySlug {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !opts.After.IsZero() && !item.CreatedAt.After(opts.After) {
		return false
	}
	return true
}

// GetByID 按主键返回条目
func (r *contentRepo) GetByID(ctx context.Context, id int64) (*model.ContentItem, error) {
	query := rebind(r.dialect, "SELECT "+contentColumns+" FROM content_items WHERE id = ?")
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询内容失败: %w", err)
	}
	return item, nil
}

// ListMonths 返回存在已发布内容的自然月分桶，按时间倒序
func (r *contentRepo) ListMonths(ctx context.Context, contentType string) ([]model.MonthBucket, error) {
	items, err := r.List(ctx, &model.ListContentOptions{Type: contentType, Status: model.StatusPublished})
	if err != nil {
		return nil, err
	}

	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]time.Time)
	for _, item := range items {
		k := key{item.CreatedAt.Year(), item.CreatedAt.Month()}
		if item.UpdatedAt.After(buckets[k]) {
			buckets[k] = item.UpdatedAt
		}
	}

	out := make([]model.MonthBucket, 0, len(buckets))
	for k, lastMod := range buckets {
		out = append(out, model.MonthBucket{Year: k.year, Month: k.month, LastModified: lastMod})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

// Create 插入内容条目并回填 ID
func (r *contentRepo) Create(ctx context.Context, item *model.ContentItem) error {
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	categories, tags, err := marshalTerms(item)
	if err != nil {
		return err
	}

	const insert = `INSERT INTO content_items
		(type, status, title, slug, content, content_format, featured_image, excluded, categories, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		item.Type, string(item.Status), item.Title, item.Slug, item.Content,
		string(item.ContentFormat), item.FeaturedImage, item.Excluded,
		categories, tags, item.CreatedAt, item.UpdatedAt,
	}

	if r.dialect == DialectPostgres {
		query := rebind(r.dialect, insert) + " RETURNING id"
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
			return fmt.Errorf("插入内容失败: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, insert, args...)
	if err != nil {
		return fmt.Errorf("插入内容失败: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("读取自增 ID 失败: %w", err)
	}
	item.ID = id
	return nil
}

// Update 整体更新内容条目
func (r *contentRepo) Update(ctx context.Context, item *model.ContentItem) error {
	item.UpdatedAt = time.Now()

	categories, tags, err := marshalTerms(item)
	if err != nil {
		return err
	}

	query := rebind(r.dialect, `UPDATE content_items SET
		type = ?, status = ?, title = ?, slug = ?, content = ?, content_format = ?,
		featured_image = ?, excluded = ?, categories = ?, tags = ?, created_at = ?, updated_at = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		item.Type, string(item.Status), item.Title, item.Slug, item.Content,
		string(item.ContentFormat), item.FeaturedImage, item.Excluded,
		categories, tags, item.CreatedAt, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("更新内容失败: %w", err)
	}
	return requireAffected(res)
}

// Delete 永久删除内容条目
func (r *contentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, rebind(r.dialect, "DELETE FROM content_items WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("删除内容失败: %w", err)
	}
	return requireAffected(res)
}

// SetStatus 变更发布状态
func (r *contentRepo) SetStatus(ctx context.Context, id int64, status model.Status) error {
	query := rebind(r.dialect, "UPDATE content_items SET status = ?, updated_at = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("更新内容状态失败: %w", err)
	}
	return requireAffected(res)
}

// SetExcluded 切换站点地图排除标记
func (r *contentRepo) SetExcluded(ctx context.Context, id int64, excluded bool) error {
	query := rebind(r.dialect, "UPDATE content_items SET excluded = ?, updated_at = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, query, excluded, time.Now(), id)
	if err != nil {
		return fmt.Errorf("更新排除标记失败: %w", err)
	}
	return requireAffected(res)
}

// marshalTerms 把分类与标签序列化为 JSON 文本列
func marshalTerms(item *model.ContentItem) (string, string, error) {
	categories, err := json.Marshal(item.Categories)
	if err != nil {
		return "", "", fmt.Errorf("序列化分类失败: %w", err)
	}
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return "", "", fmt.Errorf("序列化标签失败: %w", err)
	}
	return string(categories), string(tags), nil
}

// requireAffected 没有行受影响时视为记录不存在
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return constant.ErrNotFound
	}
	return nil
}
