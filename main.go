/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2026-02-10 10:05:17
 * @LastEditTime: 2026-06-30 09:41:02
 * @LastEditors: 安知鱼
 */
package main

import (
	"log"

	"github.com/anzhiyu-c/easy-sitemap/cmd/server"
)

// @title           Easy Sitemap API
// @version         1.0
// @description     Easy Sitemap 站点地图服务接口文档

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8092
// @BasePath  /api
func main() {
	// 调用位于 cmd/server 包中的 NewApp 函数来构建整个应用
	app, cleanup, err := server.NewApp()
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	// 使用 defer 来确保 cleanup 函数在 main 退出时被调用
	defer cleanup()

	// 确保后台任务在程序退出时被停止
	defer app.Stop()

	// 启动应用
	if err := app.Run(); err != nil {
		log.Fatalf("应用运行失败: %v", err)
	}
}
