/*
 * @Description: 缓存失效引擎，订阅内容事件并按最小集合删除受影响的缓存
 * @Author: 安知鱼
 * @Date: 2025-12-12 09:48:22
 * @LastEditTime: 2026-01-19 21:33:08
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anzhiyu-c/easy-sitemap/internal/pkg/event"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/utility"
)

// Invalidator 订阅内容变更事件，删除受影响的站点地图缓存。
// 删除是尽力而为的：失败只记日志，不会回传给写入方。
type Invalidator struct {
	cache  utility.CacheService
	pinger *PingScheduler
}

// NewInvalidator 创建缓存失效引擎
func NewInvalidator(cache utility.CacheService, pinger *PingScheduler) *Invalidator {
	return &Invalidator{cache: cache, pinger: pinger}
}

// Register 在事件总线上订阅全部相关主题
func (iv *Invalidator) Register(bus *event.EventBus) {
	for _, topic := range []event.Topic{
		event.PostCreated, event.PostUpdated, event.PostDeleted,
		event.PostTrashed, event.PostRestored, event.PostPublished,
		event.PostExcludeToggled,
	} {
		bus.Subscribe(topic, iv.handleContentEvent)
	}
	for _, topic := range []event.Topic{
		event.TermCreated, event.TermUpdated, event.TermDeleted,
	} {
		bus.Subscribe(topic, iv.handleTermEvent)
	}
	// 搜索引擎通知只挂在发布事件上，普通变更不触发
	bus.Subscribe(event.PostPublished, iv.handlePublishEvent)
	bus.Subscribe(event.SettingUpdated, iv.handleSettingUpdated)
}

// HandleContentMutation 处理一次内容条目变更（排除开关的切换走同一条路径）
func (iv *Invalidator) HandleContentMutation(item *model.ContentItem) {
	if item == nil {
		return
	}

	var names []string
	switch item.Type {
	case model.TypePost:
		names = []string{
			string(TypePostsIndex), string(TypeTags), string(TypeCategories),
			string(TypeNews), string(TypeGeneral), string(TypeIndex),
		}
		if !item.CreatedAt.IsZero() {
			names = append(names, fmt.Sprintf("posts-%04d-%02d", item.CreatedAt.Year(), int(item.CreatedAt.Month())))
		}
		for _, cat := range item.Categories {
			names = append(names, "posts-"+cat.Slug)
		}
	case model.TypePage:
		// 页面变更不影响文章类和归档类站点地图
		names = []string{string(TypePages), string(TypeGeneral), string(TypeIndex)}
	default:
		names = []string{"post-type-" + item.Type, string(TypeGeneral), string(TypeIndex)}
	}

	iv.invalidate(names)
}

// HandleTermMutation 处理一次分类或标签变更
func (iv *Invalidator) HandleTermMutation(term *model.Term) {
	if term == nil {
		return
	}

	var names []string
	if term.Taxonomy == model.TaxonomyCategory {
		names = []string{
			string(TypeCategories), string(TypePostsIndex),
			"posts-" + term.Slug, string(TypeGeneral), string(TypeIndex),
		}
	} else {
		names = []string{string(TypeTags), string(TypeGeneral), string(TypeIndex)}
	}

	iv.invalidate(names)
}

// HandlePublish 内容进入已发布状态时调度一次搜索引擎通知
func (iv *Invalidator) HandlePublish() {
	iv.pinger.Notify()
}

// HandleSettingChange 站点地图相关配置变化时清空全部文档缓存
func (iv *Invalidator) HandleSettingChange(key string) {
	if !strings.HasPrefix(key, "SITEMAP_") {
		return
	}
	ctx := context.Background()
	keys, err := iv.cache.Scan(ctx, CacheKeyPrefix+"*")
	if err != nil {
		log.Printf("警告: 配置变更后扫描缓存键失败: %v", err)
		return
	}
	var docKeys []string
	for _, k := range keys {
		if !strings.HasPrefix(k, hitKeyPrefix) {
			docKeys = append(docKeys, k)
		}
	}
	if len(docKeys) == 0 {
		return
	}
	if err := iv.cache.Delete(ctx, docKeys...); err != nil {
		log.Printf("警告: 配置变更后清空缓存失败: %v", err)
	}
}

// invalidate 按规范名删除一组缓存文档
func (iv *Invalidator) invalidate(names []string) {
	if len(names) == 0 {
		return
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = CacheKeyPrefix + name
	}
	if err := iv.cache.Delete(context.Background(), keys...); err != nil {
		log.Printf("警告: 删除站点地图缓存失败 (keys: %v): %v", keys, err)
	}
}

func (iv *Invalidator) handleContentEvent(payload interface{}) {
	evt, ok := payload.(model.PostEvent)
	if !ok {
		log.Printf("警告: 内容事件载荷类型不符: %T", payload)
		return
	}
	iv.HandleContentMutation(evt.Item)
}

func (iv *Invalidator) handlePublishEvent(payload interface{}) {
	if _, ok := payload.(model.PostEvent); !ok {
		log.Printf("警告: 发布事件载荷类型不符: %T", payload)
		return
	}
	iv.HandlePublish()
}

func (iv *Invalidator) handleTermEvent(payload interface{}) {
	evt, ok := payload.(model.TermEvent)
	if !ok {
		log.Printf("警告: 术语事件载荷类型不符: %T", payload)
		return
	}
	iv.HandleTermMutation(evt.Term)
}

func (iv *Invalidator) handleSettingUpdated(payload interface{}) {
	evt, ok := payload.(model.SettingUpdatedEvent)
	if !ok {
		return
	}
	iv.HandleSettingChange(evt.Key)
}
