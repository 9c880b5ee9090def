/*
 * @Description: 正文媒体发现，从 HTML 中提取图片与视频扩展条目
 * @Author: 安知鱼
 * @Date: 2025-12-10 14:20:36
 * @LastEditTime: 2026-01-16 11:02:50
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anzhiyu-c/easy-sitemap/internal/pkg/parser"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
)

// 每个条目的媒体上限
const (
	maxImagesPerItem = 10
	maxVideosPerItem = 3
)

var (
	youtubeEmbedRe = regexp.MustCompile(`(?:youtube\.com/embed/|youtu\.be/)([A-Za-z0-9_-]{6,})`)
	vimeoEmbedRe   = regexp.MustCompile(`player\.vimeo\.com/video/(\d+)`)
)

// renderedBody 返回内容项的 HTML 正文，Markdown 先经 goldmark 渲染
func renderedBody(item *model.ContentItem) string {
	if item.ContentFormat == model.FormatMarkdown {
		return parser.RenderMarkdown(item.Content)
	}
	return item.Content
}

// extractImages 提取条目的图片列表：特色图优先，然后按正文出现顺序，
// 去重后最多返回 10 张。
func extractImages(item *model.ContentItem, body string) []ImageEntry {
	var images []ImageEntry
	seen := make(map[string]bool)

	add := func(src string) {
		src = strings.TrimSpace(src)
		if src == "" || seen[src] || len(images) >= maxImagesPerItem {
			return
		}
		seen[src] = true
		images = append(images, ImageEntry{Location: src, Title: item.Title})
	}

	if item.FeaturedImage != "" {
		add(item.FeaturedImage)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return images
	}
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			add(src)
		}
	})

	return images
}

// extractVideos 提取条目的视频列表，最多 3 条。
// 只有缩略图、标题、描述三者齐备的视频才会被收录：
//   - YouTube 嵌入由视频 ID 推导缩略图
//   - Vimeo 嵌入必须带 data-thumbnail 属性，否则跳过
//   - 自托管 <video> 必须带 poster 属性，否则跳过
func extractVideos(item *model.ContentItem, body string) []VideoEntry {
	description := parser.Excerpt(body, 200)
	if description == "" {
		description = item.Title
	}
	if item.Title == "" || description == "" {
		return nil
	}

	var videos []VideoEntry
	add := func(v VideoEntry) {
		if v.ThumbnailLoc == "" || len(videos) >= maxVideosPerItem {
			return
		}
		v.Title = item.Title
		v.Description = description
		videos = append(videos, v)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	doc.Find("iframe").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			return
		}
		if m := youtubeEmbedRe.FindStringSubmatch(src); m != nil {
			add(VideoEntry{
				ThumbnailLoc: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", m[1]),
				PlayerLoc:    src,
				Duration:     durationAttr(sel),
			})
			return
		}
		if vimeoEmbedRe.MatchString(src) {
			// Vimeo 的缩略图无法离线推导，缺属性就放弃该条
			thumb, _ := sel.Attr("data-thumbnail")
			add(VideoEntry{
				ThumbnailLoc: strings.TrimSpace(thumb),
				PlayerLoc:    src,
				Duration:     durationAttr(sel),
			})
		}
	})

	doc.Find("video").Each(func(_ int, sel *goquery.Selection) {
		poster, _ := sel.Attr("poster")
		contentLoc, ok := sel.Attr("src")
		if !ok || contentLoc == "" {
			contentLoc, _ = sel.Find("source").First().Attr("src")
		}
		if contentLoc == "" {
			return
		}
		// 自托管视频有直链，优先 content_loc 而非 player_loc
		add(VideoEntry{
			ThumbnailLoc: strings.TrimSpace(poster),
			ContentLoc:   contentLoc,
			Duration:     durationAttr(sel),
		})
	})

	return videos
}

// durationAttr 读取元素上显式声明的时长（秒），未知返回 0
func durationAttr(sel *goquery.Selection) int {
	raw, ok := sel.Attr("data-duration")
	if !ok {
		return 0
	}
	d, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || d < 0 {
		return 0
	}
	return d
}
