package utility

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	if err := cache.Set(ctx, "k1", "v1", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := cache.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "v1" {
		t.Errorf("Get() = %q, want %q", got, "v1")
	}

	// 不存在的键返回空串而不是错误
	got, err = cache.Get(ctx, "missing")
	if err != nil || got != "" {
		t.Errorf("Get(missing) = (%q, %v), want (\"\", nil)", got, err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	if err := cache.Set(ctx, "short", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if got, _ := cache.Get(ctx, "short"); got != "" {
		t.Errorf("过期的键应返回空串, got %q", got)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	cache.Set(ctx, "a", "1", 0)
	cache.Set(ctx, "b", "2", 0)
	if err := cache.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := cache.Get(ctx, "a"); got != "" {
		t.Error("删除后键 a 不应存在")
	}
	if got, _ := cache.Get(ctx, "b"); got != "" {
		t.Error("删除后键 b 不应存在")
	}
}

func TestMemoryCacheIncrement(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := cache.Increment(ctx, "counter")
		if err != nil {
			t.Fatalf("Increment() error = %v", err)
		}
		if got != want {
			t.Errorf("Increment() = %d, want %d", got, want)
		}
	}
}

func TestMemoryCacheIncrementConcurrent(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Increment(ctx, "counter"); err != nil {
				t.Errorf("Increment() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := cache.Get(ctx, "counter")
	if got != "20" {
		t.Errorf("并发累加后 = %q, want \"20\"", got)
	}
}

func TestMemoryCacheScan(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	cache.Set(ctx, "easy_sitemap:pages", "x", 0)
	cache.Set(ctx, "easy_sitemap:posts-index", "x", 0)
	cache.Set(ctx, "easy_sitemap:hits:pages", "1", 0)
	cache.Set(ctx, "other:key", "x", 0)

	keys, err := cache.Scan(ctx, "easy_sitemap:*")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	sort.Strings(keys)
	want := []string{"easy_sitemap:hits:pages", "easy_sitemap:pages", "easy_sitemap:posts-index"}
	if len(keys) != len(want) {
		t.Fatalf("Scan() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	hitKeys, err := cache.Scan(ctx, "easy_sitemap:hits:*")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(hitKeys) != 1 || hitKeys[0] != "easy_sitemap:hits:pages" {
		t.Errorf("Scan(hits) = %v", hitKeys)
	}
}

func TestMemoryCacheGetAndDeleteMany(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	cache.Increment(ctx, "hits:a")
	cache.Increment(ctx, "hits:a")
	cache.Increment(ctx, "hits:b")
	cache.Set(ctx, "hits:text", "not-a-number", 0)

	got, err := cache.GetAndDeleteMany(ctx, []string{"hits:a", "hits:b", "hits:text", "hits:missing"})
	if err != nil {
		t.Fatalf("GetAndDeleteMany() error = %v", err)
	}
	if got["hits:a"] != 2 || got["hits:b"] != 1 {
		t.Errorf("GetAndDeleteMany() = %v", got)
	}
	if _, ok := got["hits:missing"]; ok {
		t.Error("不存在的键不应出现在结果中")
	}

	// 收割后计数键被删除，重新累加从 1 开始
	n, _ := cache.Increment(ctx, "hits:a")
	if n != 1 {
		t.Errorf("收割后 Increment = %d, want 1", n)
	}
}

func TestMemoryCacheExpire(t *testing.T) {
	cache := NewMemoryCacheService()
	ctx := context.Background()

	cache.Set(ctx, "k", "v", 0)
	if err := cache.Expire(ctx, "k", 10*time.Millisecond); err != nil {
		t.Fatalf("Expire() error = %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if got, _ := cache.Get(ctx, "k"); got != "" {
		t.Errorf("Expire 后键应过期, got %q", got)
	}

	if err := cache.Expire(ctx, "missing", time.Minute); err == nil {
		t.Error("对不存在的键设置过期时间应返回错误")
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		s       string
		pattern string
		want    bool
	}{
		{"easy_sitemap:pages", "easy_sitemap:*", true},
		{"easy_sitemap:hits:pages", "easy_sitemap:hits:*", true},
		{"other:pages", "easy_sitemap:*", false},
		{"exact", "exact", true},
		{"exact", "other", false},
		{"abcdef", "a*f", true},
		{"abcdef", "a*x", false},
	}
	for _, tt := range tests {
		if got := matchPattern(tt.s, tt.pattern); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.s, tt.pattern, got, tt.want)
		}
	}
}
