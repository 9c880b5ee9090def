/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-12-10 10:08:14
 * @LastEditTime: 2025-12-10 10:08:21
 * @LastEditors: 安知鱼
 */
package constant

import "github.com/anzhiyu-c/easy-sitemap/internal/pkg/event"

// EventTopic 事件主题类型
type EventTopic = event.Topic

// 导出事件主题常量，供外部使用
const (
	// 内容条目事件
	EventPostCreated        EventTopic = event.PostCreated
	EventPostUpdated        EventTopic = event.PostUpdated
	EventPostDeleted        EventTopic = event.PostDeleted
	EventPostTrashed        EventTopic = event.PostTrashed
	EventPostRestored       EventTopic = event.PostRestored
	EventPostPublished      EventTopic = event.PostPublished
	EventPostExcludeToggled EventTopic = event.PostExcludeToggled
	// 分类法条目事件
	EventTermCreated EventTopic = event.TermCreated
	EventTermUpdated EventTopic = event.TermUpdated
	EventTermDeleted EventTopic = event.TermDeleted
	// 配置更新事件
	EventSettingUpdated EventTopic = event.SettingUpdated
)
