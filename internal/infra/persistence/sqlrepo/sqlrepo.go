/*
 * @Description: database/sql 仓储实现的方言适配
 * @Author: 安知鱼
 * @Date: 2025-12-16 09:40:15
 * @LastEditTime: 2026-01-22 10:18:32
 * @LastEditors: 安知鱼
 */

// Package sqlrepo 基于 database/sql 实现领域仓储接口，
// 同时支持 MySQL、PostgreSQL 和 SQLite 三种方言。
// SQL 层只做类型与状态过滤，月份、分类、排除标记等
// 细粒度过滤在 Go 侧完成，避免方言间的日期函数差异。
package sqlrepo

import (
	"fmt"
	"strings"
)

// 支持的方言
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// rebind 把 '?' 占位符改写为方言要求的形式
func rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
