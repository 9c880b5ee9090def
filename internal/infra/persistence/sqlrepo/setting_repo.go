/*
 * @Description: 配置仓储的 database/sql 实现
 * @Author: 安知鱼
 * @Date: 2025-12-16 16:05:33
 * @LastEditTime: 2026-01-22 15:34:48
 * @LastEditors: 安知鱼
 */
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
)

type settingRepo struct {
	db      *sql.DB
	dialect string
}

// NewSettingRepository 创建配置仓储
func NewSettingRepository(db *sql.DB, dialect string) repository.SettingRepository {
	return &settingRepo{db: db, dialect: dialect}
}

// FindAll 返回全部持久化配置项
func (r *settingRepo) FindAll(ctx context.Context) ([]*model.Setting, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT config_key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("查询配置失败: %w", err)
	}
	defer rows.Close()

	var settings []*model.Setting
	for rows.Next() {
		var s model.Setting
		var value sql.NullString
		if err := rows.Scan(&s.ConfigKey, &value); err != nil {
			return nil, err
		}
		s.Value = value.String
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}

// Update 批量写入配置项，键不存在时插入
func (r *settingRepo) Update(ctx context.Context, settings map[string]string) error {
	if len(settings) == 0 {
		return nil
	}

	upsert := "INSERT INTO settings (config_key, value) VALUES (?, ?) ON CONFLICT (config_key) DO UPDATE SET value = excluded.value"
	if r.dialect == DialectMySQL {
		upsert = "INSERT INTO settings (config_key, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)"
	}
	upsert = rebind(r.dialect, upsert)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	for key, value := range settings {
		if _, err := tx.ExecContext(ctx, upsert, key, value); err != nil {
			return fmt.Errorf("写入配置项 %s 失败: %w", key, err)
		}
	}
	return tx.Commit()
}
