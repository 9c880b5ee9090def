/*
 * @Description: 站点地图配置键定义
 * @Author: 安知鱼
 * @Date: 2025-12-10 10:02:11
 * @LastEditTime: 2026-01-06 15:21:40
 * @LastEditors: 安知鱼
 */
package constant

// SettingKey 为所有在应用中使用的配置键定义了类型安全的常量。
type SettingKey string

// String 方便地将 SettingKey 转换为 string 类型。
func (k SettingKey) String() string {
	return string(k)
}

const (
	// --- 站点基础配置 ---
	KeySiteURL         SettingKey = "SITE_URL"
	KeySiteName        SettingKey = "SITE_NAME"
	KeySiteDescription SettingKey = "SITE_DESCRIPTION"
	KeySiteLanguage    SettingKey = "SITE_LANGUAGE"

	// --- 各类站点地图的启用开关 ---
	KeyEnablePosts      SettingKey = "SITEMAP_ENABLE_POSTS"
	KeyEnablePages      SettingKey = "SITEMAP_ENABLE_PAGES"
	KeyEnableTags       SettingKey = "SITEMAP_ENABLE_TAGS"
	KeyEnableCategories SettingKey = "SITEMAP_ENABLE_CATEGORIES"
	KeyEnableGeneral    SettingKey = "SITEMAP_ENABLE_GENERAL"
	KeyEnableNews       SettingKey = "SITEMAP_ENABLE_NEWS"

	// --- 文章站点地图的组织方式 (single / by-date / by-category) ---
	KeyPostsOrganization SettingKey = "SITEMAP_POSTS_ORGANIZATION"

	// --- 缓存与扩展 ---
	KeyCacheDuration SettingKey = "SITEMAP_CACHE_DURATION"
	KeyIncludeImages SettingKey = "SITEMAP_INCLUDE_IMAGES"
	KeyIncludeVideos SettingKey = "SITEMAP_INCLUDE_VIDEOS"

	// --- 启用的内容类型映射 (JSON: {"post":true,"page":true,...}) ---
	KeyPostTypes SettingKey = "SITEMAP_POST_TYPES"

	// --- robots.txt 集成 ---
	KeyAddToRobots SettingKey = "SITEMAP_ADD_TO_ROBOTS"

	// --- 搜索引擎 Ping 配置 ---
	KeyAutoPing        SettingKey = "SITEMAP_AUTO_PING"
	KeyPingGoogle      SettingKey = "SITEMAP_PING_GOOGLE"
	KeyPingBing        SettingKey = "SITEMAP_PING_BING"
	KeyPingDebounceMin SettingKey = "SITEMAP_PING_DEBOUNCE_MIN"

	// --- 统计数据的持久化存储键 (JSON 快照) ---
	KeySitemapStats SettingKey = "SITEMAP_STATS"
)

// PostsOrganization 的合法取值。
const (
	OrgSingle     = "single"
	OrgByDate     = "by-date"
	OrgByCategory = "by-category"
)
