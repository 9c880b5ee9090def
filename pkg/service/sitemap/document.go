/*
 * @Description: 站点地图 XML 文档模型与序列化
 * @Author: 安知鱼
 * @Date: 2025-12-09 09:30:18
 * @LastEditTime: 2026-01-15 22:40:02
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"
)

// XML 命名空间
const (
	xmlnsSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xmlnsNews    = "http://www.google.com/schemas/sitemap-news/0.9"
	xmlnsImage   = "http://www.google.com/schemas/sitemap-image/1.1"
	xmlnsVideo   = "http://www.google.com/schemas/sitemap-video/1.1"
)

// SitemapIndex 索引文档根元素，列出各子站点地图
type SitemapIndex struct {
	XMLName xml.Name     `xml:"sitemapindex"`
	Xmlns   string       `xml:"xmlns,attr"`
	Entries []IndexEntry `xml:"sitemap"`
}

// IndexEntry 索引中的一个子站点地图条目
type IndexEntry struct {
	Location     string `xml:"loc"`
	LastModified string `xml:"lastmod,omitempty"`
}

// URLSet 站点地图根元素
type URLSet struct {
	XMLName    xml.Name `xml:"urlset"`
	Xmlns      string   `xml:"xmlns,attr"`
	XmlnsNews  string   `xml:"xmlns:news,attr,omitempty"`
	XmlnsImage string   `xml:"xmlns:image,attr,omitempty"`
	XmlnsVideo string   `xml:"xmlns:video,attr,omitempty"`
	URLs       []URL    `xml:"url"`
}

// URL 站点地图 URL 条目，含可选的 news/image/video 扩展
type URL struct {
	Location     string       `xml:"loc"`
	LastModified string       `xml:"lastmod,omitempty"`
	Priority     string       `xml:"priority,omitempty"`
	News         *NewsEntry   `xml:"news:news,omitempty"`
	Images       []ImageEntry `xml:"image:image,omitempty"`
	Videos       []VideoEntry `xml:"video:video,omitempty"`
}

// NewsEntry Google News 扩展条目
type NewsEntry struct {
	Publication     NewsPublication `xml:"news:publication"`
	PublicationDate string          `xml:"news:publication_date"`
	Title           string          `xml:"news:title"`
	Genres          string          `xml:"news:genres,omitempty"`
	Keywords        string          `xml:"news:keywords,omitempty"`
}

// NewsPublication 新闻发布者信息
type NewsPublication struct {
	Name     string `xml:"news:name"`
	Language string `xml:"news:language"`
}

// ImageEntry 图片扩展条目
type ImageEntry struct {
	Location string `xml:"image:loc"`
	Title    string `xml:"image:title,omitempty"`
}

// VideoEntry 视频扩展条目
type VideoEntry struct {
	ThumbnailLoc string `xml:"video:thumbnail_loc"`
	Title        string `xml:"video:title"`
	Description  string `xml:"video:description"`
	ContentLoc   string `xml:"video:content_loc,omitempty"`
	PlayerLoc    string `xml:"video:player_loc,omitempty"`
	Duration     int    `xml:"video:duration,omitempty"`
}

// formatLastMod 按 UTC ISO-8601 格式化 lastmod
func formatLastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05Z07:00")
}

// renderDocument 把文档结构序列化为完整的 XML 字节流：
// XML 声明、xml-stylesheet 指令、生成器注释，然后是文档主体。
func renderDocument(doc interface{}, stylesheetHref string, generatedAt time.Time) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化站点地图文档失败: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if stylesheetHref != "" {
		fmt.Fprintf(&buf, "<?xml-stylesheet type=\"text/xsl\" href=\"%s\"?>\n", stylesheetHref)
	}
	buf.WriteString("<!-- generated by easy-sitemap -->\n")
	fmt.Fprintf(&buf, "<!-- generated on %s -->\n", generatedAt.UTC().Format(time.RFC3339))
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
