package sitemap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	sitemap_service "github.com/anzhiyu-c/easy-sitemap/pkg/service/sitemap"
)

type stubSettingRepo struct{}

func (stubSettingRepo) FindAll(ctx context.Context) ([]*model.Setting, error) { return nil, nil }
func (stubSettingRepo) Update(ctx context.Context, settings map[string]string) error {
	return nil
}

// stubSitemapService 返回预设响应的站点地图服务
type stubSitemapService struct {
	stats *sitemap_service.Stats
}

func newStubSitemapService() *stubSitemapService {
	return &stubSitemapService{stats: sitemap_service.NewStats(stubSettingRepo{})}
}

func (s *stubSitemapService) ResolveFile(ctx context.Context, file string) (sitemap_service.Request, error) {
	if file == "posts-index.xml" {
		return sitemap_service.Request{Type: sitemap_service.TypePostsIndex}, nil
	}
	if file == "posts-broken.xml" {
		return sitemap_service.Request{}, errors.New("db down")
	}
	return sitemap_service.Request{}, constant.ErrNotFound
}

func (s *stubSitemapService) Serve(ctx context.Context, req sitemap_service.Request) (*sitemap_service.Result, error) {
	return &sitemap_service.Result{
		Content: []byte(`<?xml version="1.0" encoding="UTF-8"?><urlset/>`),
		TTL:     time.Hour,
	}, nil
}

func (s *stubSitemapService) Regenerate(ctx context.Context) (int, error) { return 6, nil }
func (s *stubSitemapService) WarmCache(ctx context.Context) (int, error)  { return 6, nil }
func (s *stubSitemapService) ClearCache(ctx context.Context) (int, error) { return 3, nil }
func (s *stubSitemapService) FlushHitCounters(ctx context.Context) error  { return nil }
func (s *stubSitemapService) RobotsTxt(ctx context.Context) string {
	return "User-agent: *\nAllow: /\n\nSitemap: https://example.com/sitemap.xml\n"
}
func (s *stubSitemapService) IndexURL() string             { return "https://example.com/sitemap.xml" }
func (s *stubSitemapService) Stats() *sitemap_service.Stats { return s.stats }

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newStubSitemapService())
	engine := gin.New()
	engine.GET("/sitemap.xml", h.GetIndex)
	engine.GET("/easy-sitemap/:file", h.GetSitemapFile)
	engine.GET("/wp-sitemap.xml", h.RedirectNative)
	engine.GET("/robots.txt", h.GetRobots)
	engine.POST("/api/sitemap/regenerate", h.Regenerate)
	engine.POST("/api/sitemap/cache/clear", h.ClearCache)
	engine.GET("/api/sitemap/stats", h.GetStats)
	return engine
}

func doRequest(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestGetIndex(t *testing.T) {
	w := doRequest(newTestEngine(), http.MethodGet, "/sitemap.xml")

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/xml; charset=UTF-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if tag := w.Header().Get("X-Robots-Tag"); tag != "noindex, follow" {
		t.Errorf("X-Robots-Tag = %q", tag)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if w.Header().Get("Expires") == "" {
		t.Error("缺少 Expires 响应头")
	}
	if !strings.Contains(w.Body.String(), "<urlset/>") {
		t.Errorf("响应体 = %q", w.Body.String())
	}
}

func TestGetSitemapFile(t *testing.T) {
	engine := newTestEngine()

	t.Run("已知文件返回文档", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/easy-sitemap/posts-index.xml")
		if w.Code != http.StatusOK {
			t.Errorf("状态码 = %d, want 200", w.Code)
		}
	})

	t.Run("未知文件返回404", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/easy-sitemap/unknown.xml")
		if w.Code != http.StatusNotFound {
			t.Errorf("状态码 = %d, want 404", w.Code)
		}
		if !strings.Contains(w.Body.String(), "404 page not found") {
			t.Errorf("响应体 = %q", w.Body.String())
		}
	})

	t.Run("解析时仓储故障返回500", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/easy-sitemap/posts-broken.xml")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("状态码 = %d, want 500", w.Code)
		}
	})

	t.Run("样式表直接输出", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/easy-sitemap/sitemap.xsl")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, want 200", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/xsl") {
			t.Errorf("Content-Type = %q", ct)
		}
		if !strings.Contains(w.Body.String(), "xsl:stylesheet") {
			t.Error("响应体应为 XSL 样式表")
		}
	})
}

func TestRedirectNative(t *testing.T) {
	w := doRequest(newTestEngine(), http.MethodGet, "/wp-sitemap.xml")
	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("状态码 = %d, want 301", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/sitemap.xml" {
		t.Errorf("Location = %q, want /sitemap.xml", loc)
	}
}

func TestGetRobots(t *testing.T) {
	w := doRequest(newTestEngine(), http.MethodGet, "/robots.txt")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("响应体 = %q", w.Body.String())
	}
}

func TestAdminEndpoints(t *testing.T) {
	engine := newTestEngine()

	t.Run("重建", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/api/sitemap/regenerate")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"regenerated":6`) {
			t.Errorf("响应体 = %q", w.Body.String())
		}
	})

	t.Run("清缓存", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/api/sitemap/cache/clear")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"cleared":3`) {
			t.Errorf("响应体 = %q", w.Body.String())
		}
	})

	t.Run("统计", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/sitemap/stats")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "generations") {
			t.Errorf("响应体 = %q", w.Body.String())
		}
	})
}
