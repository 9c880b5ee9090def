/*
 * @Description: 站点地图渲染器，把内容数据组装成各类型的 XML 文档
 * @Author: 安知鱼
 * @Date: 2025-12-10 15:02:11
 * @LastEditTime: 2026-01-18 20:14:37
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/internal/pkg/parser"
	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/setting"
)

// 各类条目的固定优先级
const (
	priorityHome     = "1.0"
	priorityPage     = "0.8"
	priorityPost     = "0.6"
	priorityCategory = "0.5"
	priorityTag      = "0.4"
)

// 新闻站点地图只收录最近两天发布的内容
const newsWindow = 48 * time.Hour

// stylesheetPath 所有站点地图共用的 XSL 样式表路径
const stylesheetPath = "/easy-sitemap/sitemap.xsl"

// snapshot 一次请求所见的配置快照，渲染过程中不再回读配置
type snapshot struct {
	SiteURL      string
	SiteName     string
	SiteLanguage string

	EnablePosts      bool
	EnablePages      bool
	EnableTags       bool
	EnableCategories bool
	EnableGeneral    bool
	EnableNews       bool

	Organization  string
	IncludeImages bool
	IncludeVideos bool

	// 注册的内容类型及其启用状态，post/page 之外的是自定义类型
	PostTypes map[string]bool

	TTL time.Duration
}

// newSnapshot 从配置服务构建快照
func newSnapshot(settingSvc setting.SettingService) *snapshot {
	snap := &snapshot{
		SiteURL:          strings.TrimSuffix(settingSvc.Get(constant.KeySiteURL.String()), "/"),
		SiteName:         settingSvc.Get(constant.KeySiteName.String()),
		SiteLanguage:     settingSvc.Get(constant.KeySiteLanguage.String()),
		EnablePosts:      settingSvc.GetBool(constant.KeyEnablePosts.String()),
		EnablePages:      settingSvc.GetBool(constant.KeyEnablePages.String()),
		EnableTags:       settingSvc.GetBool(constant.KeyEnableTags.String()),
		EnableCategories: settingSvc.GetBool(constant.KeyEnableCategories.String()),
		EnableGeneral:    settingSvc.GetBool(constant.KeyEnableGeneral.String()),
		EnableNews:       settingSvc.GetBool(constant.KeyEnableNews.String()),
		Organization:     settingSvc.Get(constant.KeyPostsOrganization.String()),
		IncludeImages:    settingSvc.GetBool(constant.KeyIncludeImages.String()),
		IncludeVideos:    settingSvc.GetBool(constant.KeyIncludeVideos.String()),
		TTL:              clampTTL(settingSvc.GetDuration(constant.KeyCacheDuration.String())),
		PostTypes:        map[string]bool{},
	}
	if raw := settingSvc.Get(constant.KeyPostTypes.String()); raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.PostTypes); err != nil {
			snap.PostTypes = map[string]bool{model.TypePost: true, model.TypePage: true}
		}
	}
	if snap.Organization == "" {
		snap.Organization = constant.OrgSingle
	}
	return snap
}

// customTypeEnabled 判断 post/page 之外的内容类型是否注册且启用
func (s *snapshot) customTypeEnabled(slug string) bool {
	if slug == model.TypePost || slug == model.TypePage {
		return false
	}
	return s.PostTypes[slug]
}

// indexURL 站点地图索引的绝对地址
func (s *snapshot) indexURL() string {
	return s.SiteURL + "/sitemap.xml"
}

// fileURL 子站点地图文件的绝对地址
func (s *snapshot) fileURL(name string) string {
	return s.SiteURL + "/easy-sitemap/" + name
}

// itemURL 内容条目的永久链接
func (s *snapshot) itemURL(item *model.ContentItem) string {
	switch item.Type {
	case model.TypePost:
		return s.SiteURL + "/posts/" + item.Slug
	case model.TypePage:
		return s.SiteURL + "/" + item.Slug
	default:
		return s.SiteURL + "/" + item.Type + "/" + item.Slug
	}
}

// termURL 分类或标签归档页的地址
func (s *snapshot) termURL(term *model.Term) string {
	if term.Taxonomy == model.TaxonomyTag {
		return s.SiteURL + "/tag/" + term.Slug + "/"
	}
	return s.SiteURL + "/category/" + term.Slug + "/"
}

// renderer 负责单个站点地图文档的组装
type renderer struct {
	contentRepo repository.ContentRepository
	termRepo    repository.TermRepository
}

func newRenderer(contentRepo repository.ContentRepository, termRepo repository.TermRepository) *renderer {
	return &renderer{contentRepo: contentRepo, termRepo: termRepo}
}

// Build 渲染一个站点地图文档，返回字节流和叶子条目数
func (r *renderer) Build(ctx context.Context, req Request, snap *snapshot) ([]byte, int, error) {
	switch req.Type {
	case TypeIndex:
		return r.buildIndex(ctx, snap)
	case TypePostsIndex:
		return r.buildPostList(ctx, snap, &model.ListContentOptions{Type: model.TypePost, Status: model.StatusPublished})
	case TypePostsByDate:
		return r.buildPostList(ctx, snap, &model.ListContentOptions{
			Type: model.TypePost, Status: model.StatusPublished,
			Year: req.Year, Month: int(req.Month),
		})
	case TypePostsByCategory:
		return r.buildPostList(ctx, snap, &model.ListContentOptions{
			Type: model.TypePost, Status: model.StatusPublished,
			CategorySlug: req.CategorySlug,
		})
	case TypePages:
		return r.buildPages(ctx, snap)
	case TypeTags:
		return r.buildTerms(ctx, snap, model.TaxonomyTag, priorityTag)
	case TypeCategories:
		return r.buildTerms(ctx, snap, model.TaxonomyCategory, priorityCategory)
	case TypeGeneral:
		return r.buildGeneral(ctx, snap)
	case TypeNews:
		return r.buildNews(ctx, snap)
	case TypePostType:
		return r.buildCustomType(ctx, snap, req.PostTypeSlug)
	default:
		return nil, 0, fmt.Errorf("未知的站点地图类型: %s", req.Type)
	}
}

// buildIndex 组装索引文档，列出当前配置下可达的全部子站点地图
func (r *renderer) buildIndex(ctx context.Context, snap *snapshot) ([]byte, int, error) {
	now := time.Now()
	doc := &SitemapIndex{Xmlns: xmlnsSitemap}

	add := func(name string, lastMod time.Time) {
		doc.Entries = append(doc.Entries, IndexEntry{
			Location:     snap.fileURL(name),
			LastModified: formatLastMod(lastMod),
		})
	}

	if snap.EnablePosts {
		switch snap.Organization {
		case constant.OrgByDate:
			buckets, err := r.contentRepo.ListMonths(ctx, model.TypePost)
			if err != nil {
				return nil, 0, fmt.Errorf("获取文章月份分桶失败: %w", err)
			}
			for _, b := range buckets {
				add(fmt.Sprintf("posts-%04d-%02d.xml", b.Year, int(b.Month)), b.LastModified)
			}
		case constant.OrgByCategory:
			terms, err := r.termRepo.ListByTaxonomy(ctx, model.TaxonomyCategory)
			if err != nil {
				return nil, 0, fmt.Errorf("获取分类列表失败: %w", err)
			}
			for _, t := range terms {
				if t.Count > 0 {
					add("posts-"+t.Slug+".xml", now)
				}
			}
		default:
			add("posts-index.xml", now)
		}
	}

	if snap.EnablePages {
		add("pages.xml", now)
	}
	if snap.EnableTags {
		add("tags.xml", now)
	}
	if snap.EnableCategories {
		add("categories.xml", now)
	}
	if snap.EnableGeneral {
		add("general.xml", now)
	}
	if snap.EnableNews {
		add("news.xml", now)
	}
	for slug, enabled := range snap.PostTypes {
		if enabled && slug != model.TypePost && slug != model.TypePage {
			add(slug+".xml", now)
		}
	}

	body, err := renderDocument(doc, stylesheetPath, now)
	return body, len(doc.Entries), err
}

// newURLSet 构建带相应命名空间声明的 urlset
func newURLSet(snap *snapshot, withNews bool) *URLSet {
	set := &URLSet{Xmlns: xmlnsSitemap}
	if withNews {
		set.XmlnsNews = xmlnsNews
	}
	if snap.IncludeImages {
		set.XmlnsImage = xmlnsImage
	}
	if snap.IncludeVideos {
		set.XmlnsVideo = xmlnsVideo
	}
	return set
}

// itemToURL 把内容条目转换为 URL 条目，按配置附带媒体扩展
func itemToURL(snap *snapshot, item *model.ContentItem, priority string) URL {
	u := URL{
		Location:     snap.itemURL(item),
		LastModified: formatLastMod(item.UpdatedAt),
		Priority:     priority,
	}
	if snap.IncludeImages || snap.IncludeVideos {
		body := renderedBody(item)
		if snap.IncludeImages {
			u.Images = extractImages(item, body)
		}
		if snap.IncludeVideos {
			u.Videos = extractVideos(item, body)
		}
	}
	return u
}

// buildPostList 组装文章类站点地图（全部、按月、按分类共用）
func (r *renderer) buildPostList(ctx context.Context, snap *snapshot, opts *model.ListContentOptions) ([]byte, int, error) {
	items, err := r.contentRepo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("获取文章列表失败: %w", err)
	}

	set := newURLSet(snap, false)
	for _, item := range items {
		set.URLs = append(set.URLs, itemToURL(snap, item, priorityPost))
	}

	body, err := renderDocument(set, stylesheetPath, time.Now())
	return body, len(set.URLs), err
}

// buildPages 组装独立页面站点地图
func (r *renderer) buildPages(ctx context.Context, snap *snapshot) ([]byte, int, error) {
	items, err := r.contentRepo.List(ctx, &model.ListContentOptions{
		Type: model.TypePage, Status: model.StatusPublished,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("获取页面列表失败: %w", err)
	}

	set := newURLSet(snap, false)
	for _, item := range items {
		set.URLs = append(set.URLs, itemToURL(snap, item, priorityPage))
	}

	body, err := renderDocument(set, stylesheetPath, time.Now())
	return body, len(set.URLs), err
}

// buildTerms 组装分类或标签归档站点地图
func (r *renderer) buildTerms(ctx context.Context, snap *snapshot, taxonomy string, priority string) ([]byte, int, error) {
	terms, err := r.termRepo.ListByTaxonomy(ctx, taxonomy)
	if err != nil {
		return nil, 0, fmt.Errorf("获取 %s 列表失败: %w", taxonomy, err)
	}

	set := newURLSet(snap, false)
	for _, term := range terms {
		if term.Count == 0 {
			continue // 空归档页不收录
		}
		set.URLs = append(set.URLs, URL{
			Location: snap.termURL(term),
			Priority: priority,
		})
	}

	body, err := renderDocument(set, stylesheetPath, time.Now())
	return body, len(set.URLs), err
}

// buildGeneral 组装综合站点地图：首页、全部页面、全部文章
func (r *renderer) buildGeneral(ctx context.Context, snap *snapshot) ([]byte, int, error) {
	set := newURLSet(snap, false)
	set.URLs = append(set.URLs, URL{
		Location:     snap.SiteURL + "/",
		LastModified: formatLastMod(time.Now()),
		Priority:     priorityHome,
	})

	pages, err := r.contentRepo.List(ctx, &model.ListContentOptions{
		Type: model.TypePage, Status: model.StatusPublished,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("获取页面列表失败: %w", err)
	}
	for _, item := range pages {
		set.URLs = append(set.URLs, itemToURL(snap, item, priorityPage))
	}

	posts, err := r.contentRepo.List(ctx, &model.ListContentOptions{
		Type: model.TypePost, Status: model.StatusPublished,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("获取文章列表失败: %w", err)
	}
	for _, item := range posts {
		set.URLs = append(set.URLs, itemToURL(snap, item, priorityPost))
	}

	body, err := renderDocument(set, stylesheetPath, time.Now())
	return body, len(set.URLs), err
}

// buildNews 组装新闻站点地图，只含最近两天发布的文章
func (r *renderer) buildNews(ctx context.Context, snap *snapshot) ([]byte, int, error) {
	items, err := r.contentRepo.List(ctx, &model.ListContentOptions{
		Type: model.TypePost, Status: model.StatusPublished,
		After: time.Now().Add(-newsWindow),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("获取新闻文章列表失败: %w", err)
	}

	set := newURLSet(snap, true)
	for _, item := range items {
		u := itemToURL(snap, item, priorityPost)
		u.News = newsEntry(snap, item)
		set.URLs = append(set.URLs, u)
	}

	body, err := renderDocument(set, stylesheetPath, time.Now())
	return body, len(set.URLs), err
}

// newsEntry 组装单条新闻扩展
func newsEntry(snap *snapshot, item *model.ContentItem) *NewsEntry {
	publishedAt := item.CreatedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now() // 发布时间不可解析时回退为当前时间
	}

	entry := &NewsEntry{
		Publication: NewsPublication{
			Name:     snap.SiteName,
			Language: snap.SiteLanguage,
		},
		PublicationDate: publishedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Title:           parser.StripHTML(item.Title),
	}

	if len(item.Categories) > 0 {
		entry.Genres = "Blog"
	}

	keywords := make([]string, 0, len(item.Tags))
	for _, tag := range item.Tags {
		if len(keywords) >= 10 {
			break
		}
		keywords = append(keywords, tag.Name)
	}
	entry.Keywords = strings.Join(keywords, ", ")

	return entry
}

// buildCustomType 组装自定义内容类型的站点地图
func (r *renderer) buildCustomType(ctx context.Context, snap *snapshot, slug string) ([]byte, int, error) {
	items, err := r.contentRepo.List(ctx, &model.ListContentOptions{
		Type: slug, Status: model.StatusPublished,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("获取内容类型 %s 列表失败: %w", slug, err)
	}

	set := newURLSet(snap, false)
	for _, item := range items {
		set.URLs = append(set.URLs, itemToURL(snap, item, priorityPost))
	}

	body, err := renderDocument(set, stylesheetPath, time.Now())
	return body, len(set.URLs), err
}
