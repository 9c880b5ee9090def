/*
 * @Description: 分类法仓储的 database/sql 实现
 * @Author: 安知鱼
 * @Date: 2025-12-16 15:28:44
 * @LastEditTime: 2026-01-22 15:12:03
 * @LastEditors: 安知鱼
 */
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
)

type termRepo struct {
	db      *sql.DB
	dialect string
	content repository.ContentRepository
}

// NewTermRepository 创建分类法仓储。内容仓储用于统计各条目
// 关联的已发布内容数。
func NewTermRepository(db *sql.DB, dialect string, content repository.ContentRepository) repository.TermRepository {
	return &termRepo{db: db, dialect: dialect, content: content}
}

// ListByTaxonomy 返回某分类法的全部条目，按名称排序并填充计数
func (r *termRepo) ListByTaxonomy(ctx context.Context, taxonomy string) ([]*model.Term, error) {
	query := rebind(r.dialect, "SELECT id, taxonomy, name, slug FROM terms WHERE taxonomy = ? ORDER BY name")
	rows, err := r.db.QueryContext(ctx, query, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("查询分类法条目失败: %w", err)
	}
	defer rows.Close()

	var terms []*model.Term
	for rows.Next() {
		var term model.Term
		if err := rows.Scan(&term.ID, &term.Taxonomy, &term.Name, &term.Slug); err != nil {
			return nil, err
		}
		terms = append(terms, &term)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts, err := r.countUsage(ctx, taxonomy)
	if err != nil {
		return nil, err
	}
	for _, term := range terms {
		term.Count = counts[term.Slug]
	}
	return terms, nil
}

// GetBySlug 按 slug 返回条目
func (r *termRepo) GetBySlug(ctx context.Context, taxonomy, slug string) (*model.Term, error) {
	query := rebind(r.dialect, "SELECT id, taxonomy, name, slug FROM terms WHERE taxonomy = ? AND slug = ?")
	var term model.Term
	err := r.db.QueryRowContext(ctx, query, taxonomy, slug).Scan(&term.ID, &term.Taxonomy, &term.Name, &term.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分类法条目失败: %w", err)
	}

	counts, err := r.countUsage(ctx, taxonomy)
	if err != nil {
		return nil, err
	}
	term.Count = counts[term.Slug]
	return &term, nil
}

// GetByID 按主键返回条目
func (r *termRepo) GetByID(ctx context.Context, id int64) (*model.Term, error) {
	query := rebind(r.dialect, "SELECT id, taxonomy, name, slug FROM terms WHERE id = ?")
	var term model.Term
	err := r.db.QueryRowContext(ctx, query, id).Scan(&term.ID, &term.Taxonomy, &term.Name, &term.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分类法条目失败: %w", err)
	}
	return &term, nil
}

// countUsage 统计各 slug 关联的已发布、未排除内容数。
// 关联关系存在内容行的 JSON 列里，跨方言查询不便，在 Go 侧统计。
func (r *termRepo) countUsage(ctx context.Context, taxonomy string) (map[string]int, error) {
	items, err := r.content.List(ctx, &model.ListContentOptions{Status: model.StatusPublished})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, item := range items {
		terms := item.Categories
		if taxonomy == model.TaxonomyTag {
			terms = item.Tags
		}
		for _, t := range terms {
			counts[t.Slug]++
		}
	}
	return counts, nil
}

// Create 插入条目并回填 ID
func (r *termRepo) Create(ctx context.Context, term *model.Term) error {
	const insert = "INSERT INTO terms (taxonomy, name, slug) VALUES (?, ?, ?)"

	if r.dialect == DialectPostgres {
		query := rebind(r.dialect, insert) + " RETURNING id"
		if err := r.db.QueryRowContext(ctx, query, term.Taxonomy, term.Name, term.Slug).Scan(&term.ID); err != nil {
			return fmt.Errorf("插入分类法条目失败: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, insert, term.Taxonomy, term.Name, term.Slug)
	if err != nil {
		return fmt.Errorf("插入分类法条目失败: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("读取自增 ID 失败: %w", err)
	}
	term.ID = id
	return nil
}

// Update 更新条目
func (r *termRepo) Update(ctx context.Context, term *model.Term) error {
	query := rebind(r.dialect, "UPDATE terms SET taxonomy = ?, name = ?, slug = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, query, term.Taxonomy, term.Name, term.Slug, term.ID)
	if err != nil {
		return fmt.Errorf("更新分类法条目失败: %w", err)
	}
	return requireAffected(res)
}

// Delete 删除条目
func (r *termRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, rebind(r.dialect, "DELETE FROM terms WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("删除分类法条目失败: %w", err)
	}
	return requireAffected(res)
}
