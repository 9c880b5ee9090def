/*
 * @Description: 配置项定义与旧版键迁移
 * @Author: 安知鱼
 * @Date: 2025-12-10 10:40:52
 * @LastEditTime: 2026-01-18 21:08:30
 * @LastEditors: 安知鱼
 */
package configdef

import "github.com/anzhiyu-c/easy-sitemap/pkg/constant"

// Definition 定义了单个配置项的所有属性。
type Definition struct {
	Key     constant.SettingKey
	Value   string
	Comment string
}

// AllSettings 是系统中所有配置项的"单一事实来源"
var AllSettings = []Definition{
	// --- 站点基础配置 ---
	{Key: constant.KeySiteURL, Value: "http://localhost:8092", Comment: "站点URL，生成的所有链接以此为前缀"},
	{Key: constant.KeySiteName, Value: "Easy Sitemap", Comment: "站点名称，同时用作新闻站点地图的出版物名称"},
	{Key: constant.KeySiteDescription, Value: "", Comment: "站点描述"},
	{Key: constant.KeySiteLanguage, Value: "zh", Comment: "站点语言（两位语言代码，用于新闻站点地图）"},

	// --- 各类站点地图的启用开关 ---
	{Key: constant.KeyEnablePosts, Value: "true", Comment: "是否生成文章站点地图"},
	{Key: constant.KeyEnablePages, Value: "true", Comment: "是否生成页面站点地图"},
	{Key: constant.KeyEnableTags, Value: "true", Comment: "是否生成标签站点地图"},
	{Key: constant.KeyEnableCategories, Value: "true", Comment: "是否生成分类站点地图"},
	{Key: constant.KeyEnableGeneral, Value: "true", Comment: "是否生成包含全部URL的综合站点地图"},
	{Key: constant.KeyEnableNews, Value: "false", Comment: "是否生成 Google News 站点地图（最近2天的文章）"},

	// --- 文章组织方式 ---
	{Key: constant.KeyPostsOrganization, Value: "single", Comment: "文章站点地图组织方式: single / by-date / by-category"},

	// --- 缓存与扩展 ---
	{Key: constant.KeyCacheDuration, Value: "3600", Comment: "站点地图缓存时长（秒），下限60，上限604800"},
	{Key: constant.KeyIncludeImages, Value: "true", Comment: "是否在站点地图中附带图片扩展"},
	{Key: constant.KeyIncludeVideos, Value: "false", Comment: "是否在站点地图中附带视频扩展"},

	// --- 内容类型 ---
	{Key: constant.KeyPostTypes, Value: `{"post":true,"page":true}`, Comment: "启用的内容类型映射(JSON)，自定义类型拥有独立的站点地图端点"},

	// --- robots.txt ---
	{Key: constant.KeyAddToRobots, Value: "true", Comment: "是否在 robots.txt 中追加 Sitemap 行"},

	// --- Ping 配置 ---
	{Key: constant.KeyAutoPing, Value: "true", Comment: "内容发布后是否自动通知搜索引擎"},
	{Key: constant.KeyPingGoogle, Value: "true", Comment: "是否通知 Google"},
	{Key: constant.KeyPingBing, Value: "true", Comment: "是否通知 Bing"},
	{Key: constant.KeyPingDebounceMin, Value: "5", Comment: "Ping 防抖窗口（分钟），最小1"},
}

// LegacyKeyMap 将 v1 的配置键映射到当前键。
// 启动时执行一次迁移，渲染代码不再做逐键回退。
var LegacyKeyMap = map[string]constant.SettingKey{
	"enable_posts":       constant.KeyEnablePosts,
	"enable_pages":       constant.KeyEnablePages,
	"enable_tags":        constant.KeyEnableTags,
	"enable_categories":  constant.KeyEnableCategories,
	"enable_general":     constant.KeyEnableGeneral,
	"enable_news":        constant.KeyEnableNews,
	"posts_organization": constant.KeyPostsOrganization,
	"cache_duration":     constant.KeyCacheDuration,
	"include_images":     constant.KeyIncludeImages,
	"include_videos":     constant.KeyIncludeVideos,
	"post_types":         constant.KeyPostTypes,
	"add_to_robots":      constant.KeyAddToRobots,
	"auto_ping":          constant.KeyAutoPing,
	"ping_google":        constant.KeyPingGoogle,
	"ping_bing":          constant.KeyPingBing,
	"ping_debounce_min":  constant.KeyPingDebounceMin,
}

// MigrateLegacyValue 转换旧版配置值。目前只有组织方式的取值发生过更名。
func MigrateLegacyValue(legacyKey, value string) string {
	if legacyKey != "posts_organization" {
		return value
	}
	switch value {
	case "date":
		return constant.OrgByDate
	case "category":
		return constant.OrgByCategory
	default:
		return value
	}
}
