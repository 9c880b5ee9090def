/*
 * @Description: Markdown 渲染
 * @Author: 安知鱼
 * @Date: 2025-12-10 11:02:48
 * @LastEditTime: 2025-12-10 11:02:55
 * @LastEditors: 安知鱼
 */
package parser

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var mdParser goldmark.Markdown

func init() {
	// 初始化 Goldmark 解析器，并启用常用扩展
	mdParser = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,           // 支持 GitHub Flavored Markdown
			extension.Linkify,       // 自动识别链接
			extension.Strikethrough, // 删除线
			extension.Table,         // 表格
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(), // 保留内嵌的 iframe/video 标签，供媒体提取使用
		),
	)
}

// RenderMarkdown 将 Markdown 文本渲染为 HTML 字符串。
// 渲染失败时返回原文，调用方按 HTML 继续处理。
func RenderMarkdown(markdown string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(markdown), &buf); err != nil {
		return markdown
	}
	return buf.String()
}
