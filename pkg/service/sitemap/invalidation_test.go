package sitemap

import (
	"context"
	"testing"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/utility"
)

// newIdleInvalidator 构建一个不会真正触发通知的失效引擎
func newIdleInvalidator(cache utility.CacheService) *Invalidator {
	settings := newFakeSettings(map[string]string{
		constant.KeyAutoPing.String(): "false",
	})
	pinger := NewPingScheduler(settings, NewStats(newFakeSettingRepo()), func() string { return "https://example.com/sitemap.xml" })
	return NewInvalidator(cache, pinger)
}

// newTimedInvalidator 构建失效引擎并暴露通知定时器的替身
func newTimedInvalidator(cache utility.CacheService) (*Invalidator, *fakeTimer) {
	pinger, ft, _ := newTestPinger(newFakeSettings(nil))
	return NewInvalidator(cache, pinger), ft
}

// seedCache 预填一组文档缓存和一个请求计数键
func seedCache(t *testing.T, cache utility.CacheService, names []string) {
	t.Helper()
	ctx := context.Background()
	for _, name := range names {
		if err := cache.Set(ctx, CacheKeyPrefix+name, "<urlset/>", time.Hour); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}
	if _, err := cache.Increment(ctx, hitKeyPrefix+"pages"); err != nil {
		t.Fatalf("Increment error = %v", err)
	}
}

func cachedNames(t *testing.T, cache utility.CacheService, names []string) map[string]bool {
	t.Helper()
	out := make(map[string]bool, len(names))
	for _, name := range names {
		v, err := cache.Get(context.Background(), CacheKeyPrefix+name)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", name, err)
		}
		out[name] = v != ""
	}
	return out
}

var allDocNames = []string{
	"sitemap-index", "posts-index", "pages", "tags", "categories",
	"general", "news", "posts-2024-01", "posts-tech", "post-type-product",
}

func TestHandleContentMutationPost(t *testing.T) {
	cache := utility.NewMemoryCacheService()
	seedCache(t, cache, allDocNames)
	iv := newIdleInvalidator(cache)

	iv.HandleContentMutation(&model.ContentItem{
		Type:       model.TypePost,
		CreatedAt:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Categories: []model.Term{{Taxonomy: model.TaxonomyCategory, Slug: "tech"}},
	})

	got := cachedNames(t, cache, allDocNames)
	wantGone := []string{
		"posts-index", "tags", "categories", "news", "general",
		"sitemap-index", "posts-2024-01", "posts-tech",
	}
	for _, name := range wantGone {
		if got[name] {
			t.Errorf("文章变更后 %s 应被删除", name)
		}
	}
	for _, name := range []string{"pages", "post-type-product"} {
		if !got[name] {
			t.Errorf("文章变更不应波及 %s", name)
		}
	}
}

func TestHandleContentMutationPage(t *testing.T) {
	cache := utility.NewMemoryCacheService()
	seedCache(t, cache, allDocNames)
	iv := newIdleInvalidator(cache)

	iv.HandleContentMutation(&model.ContentItem{Type: model.TypePage})

	got := cachedNames(t, cache, allDocNames)
	for _, name := range []string{"pages", "general", "sitemap-index"} {
		if got[name] {
			t.Errorf("页面变更后 %s 应被删除", name)
		}
	}
	// 页面变更的失效集合是最小的
	for _, name := range []string{"posts-index", "tags", "categories", "news", "posts-2024-01", "posts-tech", "post-type-product"} {
		if !got[name] {
			t.Errorf("页面变更不应波及 %s", name)
		}
	}
}

func TestHandleContentMutationCustomType(t *testing.T) {
	cache := utility.NewMemoryCacheService()
	seedCache(t, cache, allDocNames)
	iv := newIdleInvalidator(cache)

	iv.HandleContentMutation(&model.ContentItem{Type: "product"})

	got := cachedNames(t, cache, allDocNames)
	for _, name := range []string{"post-type-product", "general", "sitemap-index"} {
		if got[name] {
			t.Errorf("自定义类型变更后 %s 应被删除", name)
		}
	}
	for _, name := range []string{"posts-index", "pages", "news"} {
		if !got[name] {
			t.Errorf("自定义类型变更不应波及 %s", name)
		}
	}
}

func TestHandleTermMutation(t *testing.T) {
	t.Run("分类变更波及文章类文件", func(t *testing.T) {
		cache := utility.NewMemoryCacheService()
		seedCache(t, cache, allDocNames)
		iv := newIdleInvalidator(cache)

		iv.HandleTermMutation(&model.Term{Taxonomy: model.TaxonomyCategory, Slug: "tech"})

		got := cachedNames(t, cache, allDocNames)
		for _, name := range []string{"categories", "posts-index", "posts-tech", "general", "sitemap-index"} {
			if got[name] {
				t.Errorf("分类变更后 %s 应被删除", name)
			}
		}
		if !got["tags"] || !got["pages"] {
			t.Error("分类变更不应波及标签和页面文件")
		}
	})

	t.Run("标签变更只波及标签文件", func(t *testing.T) {
		cache := utility.NewMemoryCacheService()
		seedCache(t, cache, allDocNames)
		iv := newIdleInvalidator(cache)

		iv.HandleTermMutation(&model.Term{Taxonomy: model.TaxonomyTag, Slug: "go"})

		got := cachedNames(t, cache, allDocNames)
		for _, name := range []string{"tags", "general", "sitemap-index"} {
			if got[name] {
				t.Errorf("标签变更后 %s 应被删除", name)
			}
		}
		if !got["categories"] || !got["posts-index"] {
			t.Error("标签变更不应波及分类和文章文件")
		}
	})
}

func TestHandleSettingChange(t *testing.T) {
	cache := utility.NewMemoryCacheService()
	seedCache(t, cache, allDocNames)
	iv := newIdleInvalidator(cache)

	// 与站点地图无关的配置键不触发清理
	iv.HandleSettingChange("SITE_NAME")
	got := cachedNames(t, cache, allDocNames)
	for _, name := range allDocNames {
		if !got[name] {
			t.Errorf("无关配置变更不应删除 %s", name)
		}
	}

	// SITEMAP_ 前缀的配置变更清空全部文档，但保留命中计数
	iv.HandleSettingChange(constant.KeyPostsOrganization.String())
	got = cachedNames(t, cache, allDocNames)
	for _, name := range allDocNames {
		if got[name] {
			t.Errorf("配置变更后 %s 应被删除", name)
		}
	}
	if v, _ := cache.Get(context.Background(), hitKeyPrefix+"pages"); v == "" {
		t.Error("配置变更不应删除命中计数键")
	}
}

func TestPingOnlyOnPublish(t *testing.T) {
	cache := utility.NewMemoryCacheService()
	seedCache(t, cache, allDocNames)
	iv, ft := newTimedInvalidator(cache)

	// 草稿变更和分类法变更只失效缓存，不调度搜索引擎通知
	iv.HandleContentMutation(&model.ContentItem{
		Type:   model.TypePost,
		Status: model.StatusDraft,
	})
	iv.HandleTermMutation(&model.Term{Taxonomy: model.TaxonomyCategory, Slug: "tech"})
	if len(ft.callbacks) != 0 {
		t.Fatalf("普通变更不应调度通知，定时器数 = %d", len(ft.callbacks))
	}

	// 发布事件才调度
	iv.HandlePublish()
	if len(ft.callbacks) != 1 {
		t.Errorf("发布后定时器数 = %d, want 1", len(ft.callbacks))
	}
}

func TestHandleContentMutationNil(t *testing.T) {
	cache := utility.NewMemoryCacheService()
	seedCache(t, cache, allDocNames)
	iv := newIdleInvalidator(cache)

	iv.HandleContentMutation(nil)
	iv.HandleTermMutation(nil)

	got := cachedNames(t, cache, allDocNames)
	for _, name := range allDocNames {
		if !got[name] {
			t.Errorf("空载荷不应删除 %s", name)
		}
	}
}
