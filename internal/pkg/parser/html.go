/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-12-10 11:05:21
 * @LastEditTime: 2025-12-10 11:05:27
 * @LastEditors: 安知鱼
 */
package parser

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripTagsPolicy *bluemonday.Policy

func init() {
	// StripTagsPolicy 会移除所有的HTML标签
	stripTagsPolicy = bluemonday.StripTagsPolicy()
}

// StripHTML 接受一个HTML字符串，返回一个去除了所有标签的纯文本字符串。
func StripHTML(htmlContent string) string {
	return strings.TrimSpace(stripTagsPolicy.Sanitize(htmlContent))
}

// Excerpt 返回去除标签后的前 n 个字符，用于生成描述文本。
func Excerpt(htmlContent string, n int) string {
	text := StripHTML(htmlContent)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
