/*
 * @Description: 搜索引擎通知调度器，窗口去抖后向 Google/Bing 发送 ping
 * @Author: 安知鱼
 * @Date: 2025-12-12 15:27:50
 * @LastEditTime: 2026-01-20 10:41:12
 * @LastEditors: 安知鱼
 */
package sitemap

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/service/setting"
)

// 搜索引擎名
const (
	engineGoogle = "google"
	engineBing   = "bing"
)

const pingTimeout = 5 * time.Second

// PingScheduler 管理对搜索引擎的去抖通知。
// 整个生命周期里最多存在一个待触发的定时器：窗口从第一个事件
// 起算，窗口内的后续事件被合并，不会重置倒计时。发送失败不重试。
type PingScheduler struct {
	mu      sync.Mutex
	pending bool
	timer   *time.Timer

	settingSvc setting.SettingService
	stats      *Stats
	client     *http.Client

	// 测试替身注入点
	afterFunc      func(d time.Duration, f func()) *time.Timer
	googleEndpoint string
	bingEndpoint   string
	indexURL       func() string
}

// NewPingScheduler 创建通知调度器
func NewPingScheduler(settingSvc setting.SettingService, stats *Stats, indexURL func() string) *PingScheduler {
	return &PingScheduler{
		settingSvc:     settingSvc,
		stats:          stats,
		client:         &http.Client{Timeout: pingTimeout},
		afterFunc:      time.AfterFunc,
		googleEndpoint: "https://www.google.com/ping?sitemap=",
		bingEndpoint:   "https://www.bing.com/ping?sitemap=",
		indexURL:       indexURL,
	}
}

// Notify 登记一次内容变更。自动通知关闭时为空操作；
// 已有待触发的定时器时直接合并，不重置窗口。
func (p *PingScheduler) Notify() {
	if !p.settingSvc.GetBool(constant.KeyAutoPing.String()) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending {
		return
	}
	p.pending = true
	p.timer = p.afterFunc(p.debounceWindow(), p.fire)
}

// Stop 取消待触发的通知
func (p *PingScheduler) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pending = false
}

// debounceWindow 读取去抖窗口，最小 1 分钟，未配置时 5 分钟
func (p *PingScheduler) debounceWindow() time.Duration {
	minutes := p.settingSvc.GetInt(constant.KeyPingDebounceMin.String())
	if minutes < 1 {
		if minutes == 0 {
			minutes = 5
		} else {
			minutes = 1
		}
	}
	return time.Duration(minutes) * time.Minute
}

// fire 窗口到期后执行通知，先回到空闲态再发送
func (p *PingScheduler) fire() {
	p.mu.Lock()
	p.pending = false
	p.timer = nil
	p.mu.Unlock()

	rec := PingRecord{At: time.Now(), Results: make(map[string]PingOutcome)}
	target := url.QueryEscape(p.indexURL())

	if p.settingSvc.GetBool(constant.KeyPingGoogle.String()) {
		rec.Results[engineGoogle] = p.pingOnce(p.googleEndpoint + target)
	}
	if p.settingSvc.GetBool(constant.KeyPingBing.String()) {
		rec.Results[engineBing] = p.pingOnce(p.bingEndpoint + target)
	}

	if len(rec.Results) > 0 {
		p.stats.RecordPing(rec)
		log.Printf("站点地图通知完成: %v", summarize(rec))
	}
}

// pingOnce 发起一次通知请求并归类结果，不重试
func (p *PingScheduler) pingOnce(endpoint string) PingOutcome {
	resp, err := p.client.Get(endpoint)
	if err != nil {
		return PingOutcome{OK: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PingOutcome{OK: false, StatusCode: resp.StatusCode}
	}
	return PingOutcome{OK: true, StatusCode: resp.StatusCode}
}

func summarize(rec PingRecord) string {
	out := ""
	for engine, result := range rec.Results {
		status := "ok"
		if !result.OK {
			if result.Error != "" {
				status = result.Error
			} else {
				status = fmt.Sprintf("http %d", result.StatusCode)
			}
		}
		if out != "" {
			out += ", "
		}
		out += engine + "=" + status
	}
	return out
}
