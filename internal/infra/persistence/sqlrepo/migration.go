/*
 * @Description: 启动时建表迁移
 * @Author: 安知鱼
 * @Date: 2025-12-16 10:02:40
 * @LastEditTime: 2026-01-22 10:30:55
 * @LastEditors: 安知鱼
 */
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// idColumn 各方言的自增主键定义
func idColumn(dialect string) string {
	switch dialect {
	case DialectMySQL:
		return "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	case DialectPostgres:
		return "id BIGSERIAL PRIMARY KEY"
	default:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// timestampType 各方言的时间戳列类型
func timestampType(dialect string) string {
	switch dialect {
	case DialectMySQL:
		return "DATETIME"
	case DialectPostgres:
		return "TIMESTAMPTZ"
	default:
		return "TIMESTAMP"
	}
}

// Migrate 创建缺失的表结构，可重复执行
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	ts := timestampType(dialect)
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS content_items (
			%s,
			type VARCHAR(64) NOT NULL,
			status VARCHAR(16) NOT NULL,
			title TEXT NOT NULL,
			slug VARCHAR(255) NOT NULL,
			content TEXT,
			content_format VARCHAR(16) NOT NULL,
			featured_image TEXT,
			excluded BOOLEAN NOT NULL DEFAULT FALSE,
			categories TEXT,
			tags TEXT,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, idColumn(dialect), ts, ts),
		`CREATE INDEX IF NOT EXISTS idx_content_type_status ON content_items (type, status)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS terms (
			%s,
			taxonomy VARCHAR(32) NOT NULL,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL
		)`, idColumn(dialect)),
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_terms_taxonomy_slug ON terms (taxonomy, slug)`,
		`CREATE TABLE IF NOT EXISTS settings (
			config_key VARCHAR(255) PRIMARY KEY,
			value TEXT
		)`,
	}

	// MySQL 不支持 CREATE INDEX IF NOT EXISTS，索引失败只告警
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if dialect == DialectMySQL {
				log.Printf("⚠️ 警告: 迁移语句执行失败（可能已存在）: %v", err)
				continue
			}
			return fmt.Errorf("执行迁移语句失败: %w", err)
		}
	}

	log.Println("✅ 数据库表结构迁移完成")
	return nil
}
