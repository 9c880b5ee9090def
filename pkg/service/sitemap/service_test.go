package sitemap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/utility"
)

func newTestService(contentRepo *fakeContentRepo, termRepo *fakeTermRepo, settings *fakeSettings) (Service, utility.CacheService) {
	cache := utility.NewMemoryCacheService()
	stats := NewStats(newFakeSettingRepo())
	return NewService(contentRepo, termRepo, settings, cache, stats), cache
}

func TestResolveFile(t *testing.T) {
	termRepo := &fakeTermRepo{terms: []*model.Term{
		{ID: 1, Taxonomy: model.TaxonomyCategory, Name: "技术", Slug: "tech", Count: 2},
	}}
	settings := newFakeSettings(map[string]string{
		constant.KeyPostTypes.String(): `{"post":true,"page":true,"product":true,"doc":false}`,
	})
	svc, _ := newTestService(&fakeContentRepo{}, termRepo, settings)

	tests := []struct {
		name    string
		file    string
		want    Request
		wantErr bool
	}{
		{name: "文章总表", file: "posts-index.xml", want: Request{Type: TypePostsIndex}},
		{name: "旧版posts等价于总表", file: "posts.xml", want: Request{Type: TypePostsIndex}},
		{name: "页面", file: "pages.xml", want: Request{Type: TypePages}},
		{name: "新闻", file: "news.xml", want: Request{Type: TypeNews}},
		{name: "按月文件", file: "posts-2024-03.xml", want: Request{Type: TypePostsByDate, Year: 2024, Month: time.March}},
		{name: "月份越界", file: "posts-2024-13.xml", wantErr: true},
		{name: "年份越界", file: "posts-1969-01.xml", wantErr: true},
		{name: "已存在的分类", file: "posts-tech.xml", want: Request{Type: TypePostsByCategory, CategorySlug: "tech"}},
		{name: "不存在的分类", file: "posts-nope.xml", wantErr: true},
		{name: "已启用的自定义类型", file: "product.xml", want: Request{Type: TypePostType, PostTypeSlug: "product"}},
		{name: "已注册但停用的自定义类型", file: "doc.xml", wantErr: true},
		{name: "内置类型不走自定义端点", file: "post.xml", wantErr: true},
		{name: "缺少xml后缀", file: "pages", wantErr: true},
		{name: "未知名字", file: "whatever.xml", wantErr: true},
		{name: "空文件名", file: ".xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveFile(context.Background(), tt.file)
			if tt.wantErr {
				if !errors.Is(err, constant.ErrNotFound) {
					t.Errorf("ResolveFile(%q) error = %v, want ErrNotFound", tt.file, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveFile(%q) error = %v", tt.file, err)
			}
			if got != tt.want {
				t.Errorf("ResolveFile(%q) = %+v, want %+v", tt.file, got, tt.want)
			}
		})
	}
}

func TestResolveFileRepoError(t *testing.T) {
	termRepo := &fakeTermRepo{getErr: errors.New("db down")}
	svc, _ := newTestService(&fakeContentRepo{}, termRepo, newFakeSettings(nil))

	// 仓储故障不能伪装成 404
	_, err := svc.ResolveFile(context.Background(), "posts-tech.xml")
	if err == nil {
		t.Fatal("仓储故障时 ResolveFile 应返回错误")
	}
	if errors.Is(err, constant.ErrNotFound) {
		t.Errorf("仓储故障不应映射为 ErrNotFound, got %v", err)
	}
}

func TestServeCacheHit(t *testing.T) {
	contentRepo := &fakeContentRepo{items: []*model.ContentItem{
		post(1, "a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc, _ := newTestService(contentRepo, &fakeTermRepo{}, newFakeSettings(nil))
	ctx := context.Background()
	req := Request{Type: TypePostsIndex}

	first, err := svc.Serve(ctx, req)
	if err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if first.FromCache {
		t.Error("首次请求不应命中缓存")
	}

	second, err := svc.Serve(ctx, req)
	if err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if !second.FromCache {
		t.Error("第二次请求应命中缓存")
	}
	// 文档头含生成时间戳，字节级相等证明返回的是缓存原文
	if !bytes.Equal(first.Content, second.Content) {
		t.Error("缓存命中应原样返回首次生成的字节")
	}

	// 未命中和命中各计一次请求
	if err := svc.FlushHitCounters(ctx); err != nil {
		t.Fatalf("FlushHitCounters() error = %v", err)
	}
	snap := svc.Stats().Snapshot()
	if snap.Hits["posts-index"] != 2 {
		t.Errorf("请求计数 = %d, want 2", snap.Hits["posts-index"])
	}
	if _, ok := snap.Generations["posts-index"]; !ok {
		t.Error("缺少生成记录")
	}
}

func TestServeColdCacheCountsRequest(t *testing.T) {
	contentRepo := &fakeContentRepo{items: []*model.ContentItem{
		post(1, "a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc, _ := newTestService(contentRepo, &fakeTermRepo{}, newFakeSettings(nil))
	ctx := context.Background()

	// 冷缓存的首次请求也要计数
	if _, err := svc.Serve(ctx, Request{Type: TypePostsIndex}); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if err := svc.FlushHitCounters(ctx); err != nil {
		t.Fatalf("FlushHitCounters() error = %v", err)
	}
	if hits := svc.Stats().Snapshot().Hits["posts-index"]; hits != 1 {
		t.Errorf("请求计数 = %d, want 1", hits)
	}
}

func TestServeDisabledType(t *testing.T) {
	settings := newFakeSettings(map[string]string{
		constant.KeyEnablePages.String(): "false",
	})
	svc, _ := newTestService(&fakeContentRepo{}, &fakeTermRepo{}, settings)

	if _, err := svc.Serve(context.Background(), Request{Type: TypePages}); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("停用类型应返回 ErrNotFound, got %v", err)
	}
	// single 模式下按月端点不可达
	if _, err := svc.Serve(context.Background(), Request{Type: TypePostsByDate, Year: 2024, Month: 1}); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("single 模式下按月端点应返回 ErrNotFound, got %v", err)
	}
}

func TestServeProviderError(t *testing.T) {
	contentRepo := &fakeContentRepo{listErr: errors.New("db down")}
	svc, cache := newTestService(contentRepo, &fakeTermRepo{}, newFakeSettings(nil))
	ctx := context.Background()
	req := Request{Type: TypePostsIndex}

	if _, err := svc.Serve(ctx, req); err == nil {
		t.Fatal("数据源出错时 Serve 应返回错误")
	}
	// 出错时不得写入缓存
	if cached, _ := cache.Get(ctx, req.CacheKey()); cached != "" {
		t.Error("数据源出错后缓存中不应出现该文档")
	}
}

func TestClampTTL(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{name: "未配置回退默认值", in: 0, want: time.Hour},
		{name: "负值回退默认值", in: -time.Minute, want: time.Hour},
		{name: "低于下限收敛到下限", in: 10 * time.Second, want: 60 * time.Second},
		{name: "区间内原样返回", in: 2 * time.Hour, want: 2 * time.Hour},
		{name: "高于上限收敛到上限", in: 30 * 24 * time.Hour, want: 7 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampTTL(tt.in); got != tt.want {
				t.Errorf("clampTTL(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegenerateClearsWithoutWarming(t *testing.T) {
	contentRepo := &fakeContentRepo{items: []*model.ContentItem{
		post(1, "a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc, cache := newTestService(contentRepo, &fakeTermRepo{}, newFakeSettings(nil))
	ctx := context.Background()

	for _, req := range []Request{{Type: TypeIndex}, {Type: TypePostsIndex}, {Type: TypePages}} {
		if _, err := svc.Serve(ctx, req); err != nil {
			t.Fatalf("Serve(%s) error = %v", req.Name(), err)
		}
	}

	count, err := svc.Regenerate(ctx)
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if count != 3 {
		t.Errorf("清除数量 = %d, want 3", count)
	}

	// 重建只清空缓存，不预热：缓存里不能残留任何文档键
	keys, err := cache.Scan(ctx, CacheKeyPrefix+"*")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, hitKeyPrefix) {
			t.Errorf("重建后缓存残留文档键 %s", key)
		}
	}

	// 可重复执行
	again, err := svc.Regenerate(ctx)
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if again != 0 {
		t.Errorf("空缓存上重复执行清除数量 = %d, want 0", again)
	}
}

func TestWarmCache(t *testing.T) {
	contentRepo := &fakeContentRepo{items: []*model.ContentItem{
		post(1, "a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc, cache := newTestService(contentRepo, &fakeTermRepo{}, newFakeSettings(nil))
	ctx := context.Background()

	// 默认配置: index + posts-index + pages + tags + categories + general
	count, err := svc.WarmCache(ctx)
	if err != nil {
		t.Fatalf("WarmCache() error = %v", err)
	}
	if count != 6 {
		t.Errorf("预热数量 = %d, want 6", count)
	}

	if cached, _ := cache.Get(ctx, Request{Type: TypeIndex}.CacheKey()); cached == "" {
		t.Error("预热后索引应已入缓存")
	}

	// 可重复执行，结果一致
	again, err := svc.WarmCache(ctx)
	if err != nil {
		t.Fatalf("WarmCache() error = %v", err)
	}
	if again != count {
		t.Errorf("重复执行数量 = %d, want %d", again, count)
	}
}

func TestClearCacheKeepsHitCounters(t *testing.T) {
	svc, cache := newTestService(&fakeContentRepo{}, &fakeTermRepo{}, newFakeSettings(nil))
	ctx := context.Background()

	if _, err := svc.Serve(ctx, Request{Type: TypePages}); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if _, err := svc.Serve(ctx, Request{Type: TypePages}); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	cleared, err := svc.ClearCache(ctx)
	if err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	if cleared != 1 {
		t.Errorf("清除数量 = %d, want 1", cleared)
	}

	// 请求计数键不受清缓存影响，仍可被收割
	if err := svc.FlushHitCounters(ctx); err != nil {
		t.Fatalf("FlushHitCounters() error = %v", err)
	}
	if hits := svc.Stats().Snapshot().Hits["pages"]; hits != 2 {
		t.Errorf("请求计数 = %d, want 2", hits)
	}
	if cached, _ := cache.Get(ctx, Request{Type: TypePages}.CacheKey()); cached != "" {
		t.Error("清缓存后文档不应残留")
	}
}

func TestRobotsTxt(t *testing.T) {
	svc, _ := newTestService(&fakeContentRepo{}, &fakeTermRepo{}, newFakeSettings(nil))
	out := svc.RobotsTxt(context.Background())
	if !strings.Contains(out, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt 缺少 Sitemap 行:\n%s", out)
	}

	svcOff, _ := newTestService(&fakeContentRepo{}, &fakeTermRepo{}, newFakeSettings(map[string]string{
		constant.KeyAddToRobots.String(): "false",
	}))
	if out := svcOff.RobotsTxt(context.Background()); strings.Contains(out, "Sitemap:") {
		t.Errorf("关闭集成后 robots.txt 不应包含 Sitemap 行:\n%s", out)
	}
}

func TestRequestNaming(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantName string
		wantFile string
	}{
		{name: "索引", req: Request{Type: TypeIndex}, wantName: "sitemap-index", wantFile: "sitemap.xml"},
		{name: "按月", req: Request{Type: TypePostsByDate, Year: 2024, Month: 3}, wantName: "posts-2024-03", wantFile: "posts-2024-03.xml"},
		{name: "按分类", req: Request{Type: TypePostsByCategory, CategorySlug: "tech"}, wantName: "posts-tech", wantFile: "posts-tech.xml"},
		{name: "自定义类型", req: Request{Type: TypePostType, PostTypeSlug: "product"}, wantName: "post-type-product", wantFile: "product.xml"},
		{name: "固定类型", req: Request{Type: TypePages}, wantName: "pages", wantFile: "pages.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got := tt.req.FileName(); got != tt.wantFile {
				t.Errorf("FileName() = %q, want %q", got, tt.wantFile)
			}
			if got := tt.req.CacheKey(); got != CacheKeyPrefix+tt.wantName {
				t.Errorf("CacheKey() = %q, want %q", got, CacheKeyPrefix+tt.wantName)
			}
		})
	}
}
