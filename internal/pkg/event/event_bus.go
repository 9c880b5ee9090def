/*
 * @Description: 一个带固定Worker池的异步事件总线
 * @Author: 安知鱼
 * @Date: 2025-12-10 11:14:02
 * @LastEditTime: 2026-01-12 19:40:25
 * @LastEditors: 安知鱼
 */
package event

import (
	"log"
	"sync"
)

// 定义事件类型
type Topic string

const (
	// 内容条目事件
	PostCreated  Topic = "post:created"
	PostUpdated  Topic = "post:updated"
	PostDeleted  Topic = "post:deleted"
	PostTrashed  Topic = "post:trashed"
	PostRestored Topic = "post:restored"
	// 内容进入已发布状态（或保持已发布状态被更新）
	PostPublished Topic = "post:published"
	// 排除标记被切换
	PostExcludeToggled Topic = "post:exclude_toggled"

	// 分类法条目事件
	TermCreated Topic = "term:created"
	TermUpdated Topic = "term:updated"
	TermDeleted Topic = "term:deleted"

	// 配置更新事件
	SettingUpdated Topic = "setting:updated"
)

// 事件处理器函数类型
type Handler func(payload interface{})

// Event 是在通道中传递的事件结构
type Event struct {
	Topic   Topic
	Payload interface{}
}

// EventBus 实现了基于Worker池的异步事件总线
type EventBus struct {
	mu        sync.RWMutex
	handlers  map[Topic][]Handler
	eventChan chan Event     // 带缓冲的事件通道
	wg        sync.WaitGroup // 用于优雅关闭
}

// 定义Worker池和通道的配置
const (
	DefaultWorkerCount = 4    // 默认启动4个后台Worker
	DefaultChannelSize = 1024 // 默认事件通道缓冲区大小
)

// NewEventBus 创建并启动一个新的事件总线
func NewEventBus() *EventBus {
	bus := &EventBus{
		handlers: make(map[Topic][]Handler),
		// 创建一个带缓冲的通道，避免Publish阻塞
		eventChan: make(chan Event, DefaultChannelSize),
	}
	bus.startWorkers(DefaultWorkerCount)
	return bus
}

// startWorkers 启动固定数量的后台worker
func (b *EventBus) startWorkers(count int) {
	for i := 0; i < count; i++ {
		b.wg.Add(1)
		// 每个worker都是一个独立的goroutine
		go b.worker(i + 1)
	}
}

// worker 是消费者，不断从通道中读取并处理事件
func (b *EventBus) worker(workerID int) {
	defer b.wg.Done()

	for event := range b.eventChan {
		b.mu.RLock()
		handlers := b.handlers[event.Topic]
		b.mu.RUnlock()

		// 在worker的goroutine内执行handler，
		// 任何订阅者出错都不能影响事件的发布方
		for _, handler := range handlers {
			b.safeInvoke(handler, event)
		}
	}
}

// safeInvoke 执行单个handler并吸收panic
func (b *EventBus) safeInvoke(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EventBus] 处理事件 '%s' 的订阅者发生 panic: %v", event.Topic, r)
		}
	}()
	handler(event.Payload)
}

// Subscribe 订阅一个事件
func (b *EventBus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish 发布一个事件
// 这是一个非阻塞操作，将事件发送到通道
func (b *EventBus) Publish(topic Topic, payload interface{}) {
	event := Event{Topic: topic, Payload: payload}

	// 使用非阻塞发送，确保Publish永远不会阻塞调用者（主流程）
	select {
	case b.eventChan <- event:
		// 事件成功放入通道
	default:
		// 如果通道已满，这是一个警告信号，说明后台处理不过来了
		log.Printf("[EventBus] WARN: Event channel is full. Dropping event for topic '%s'.", topic)
	}
}

// Shutdown 优雅地关闭事件总线
func (b *EventBus) Shutdown() {
	log.Println("[EventBus] Shutting down...")
	close(b.eventChan) // 关闭通道，这将使worker的range循环结束
	b.wg.Wait()        // 等待所有worker完成当前任务并退出
	log.Println("[EventBus] All workers have stopped.")
}
