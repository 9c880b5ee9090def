/*
 * @Description: 通用错误定义
 * @Author: 安知鱼
 * @Date: 2025-12-10 10:05:33
 * @LastEditTime: 2025-12-10 10:05:33
 * @LastEditors: 安知鱼
 */
package constant

import "errors"

var (
	// ErrNotFound 表示请求的记录不存在。
	ErrNotFound = errors.New("record not found")
	// ErrInvalidParam 表示请求参数不合法。
	ErrInvalidParam = errors.New("invalid parameter")
)
