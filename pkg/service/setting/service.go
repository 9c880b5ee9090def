// pkg/service/setting/service.go
package setting

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/internal/configdef"
	"github.com/anzhiyu-c/easy-sitemap/internal/pkg/event"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
)

// SettingService 定义了配置服务的接口
type SettingService interface {
	// LoadAllSettings 从代码定义和数据库中加载所有配置项到内存缓存，
	// 并执行一次旧版配置键的迁移。
	LoadAllSettings(ctx context.Context) error
	Get(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	// GetDuration 将以秒为单位存储的配置读为 time.Duration
	GetDuration(key string) time.Duration
	GetByKeys(keys []string) map[string]string
	UpdateSettings(ctx context.Context, settingsToUpdate map[string]string) error
}

// settingService 是 SettingService 接口的实现
type settingService struct {
	repo     repository.SettingRepository
	cache    map[string]string
	mu       sync.RWMutex
	eventBus *event.EventBus
}

// NewSettingService 是 settingService 的构造函数
func NewSettingService(repo repository.SettingRepository, bus *event.EventBus) SettingService {
	return &settingService{
		repo:     repo,
		cache:    make(map[string]string),
		eventBus: bus,
	}
}

// LoadAllSettings 从代码定义和数据库中加载所有配置项到内存缓存。
func (s *settingService) LoadAllSettings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newCache := make(map[string]string)
	for _, def := range configdef.AllSettings {
		newCache[def.Key.String()] = def.Value
	}

	dbSettings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cache = newCache
		log.Printf("⚠️ 警告: 从数据库加载配置失败: %v。服务将使用代码中定义的默认配置。", err)
		return err
	}

	// 旧版键迁移：迁移出的新键只在新键尚无持久化值时生效
	migrated := make(map[string]string)
	persisted := make(map[string]bool)
	for _, dbSetting := range dbSettings {
		if _, isLegacy := configdef.LegacyKeyMap[dbSetting.ConfigKey]; !isLegacy {
			persisted[dbSetting.ConfigKey] = true
		}
	}
	for _, dbSetting := range dbSettings {
		if newKey, isLegacy := configdef.LegacyKeyMap[dbSetting.ConfigKey]; isLegacy {
			if !persisted[newKey.String()] {
				migrated[newKey.String()] = configdef.MigrateLegacyValue(dbSetting.ConfigKey, dbSetting.Value)
			}
			continue
		}
		newCache[dbSetting.ConfigKey] = dbSetting.Value
	}

	for key, value := range migrated {
		newCache[key] = value
	}
	if len(migrated) > 0 {
		// 把迁移结果写回数据库，下次启动不再依赖旧键
		if err := s.repo.Update(ctx, migrated); err != nil {
			log.Printf("⚠️ 警告: 持久化迁移后的配置失败: %v", err)
		} else {
			log.Printf("已迁移 %d 个旧版配置键。", len(migrated))
		}
	}

	s.cache = newCache
	log.Printf("所有站点配置已成功加载到缓存，共 %d 项。", len(s.cache))
	return nil
}

// UpdateSettings 更新一个或多个配置项，并发布变更事件
func (s *settingService) UpdateSettings(ctx context.Context, settingsToUpdate map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Update(ctx, settingsToUpdate); err != nil {
		return err
	}

	for key, value := range settingsToUpdate {
		s.cache[key] = value
		s.eventBus.Publish(event.SettingUpdated, model.SettingUpdatedEvent{
			Key:   key,
			Value: value,
		})
	}

	return nil
}

// Get 根据键获取配置值
func (s *settingService) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

// GetBool 将配置值读为布尔
func (s *settingService) GetBool(key string) bool {
	v, err := strconv.ParseBool(s.Get(key))
	if err != nil {
		return false
	}
	return v
}

// GetInt 将配置值读为整数，解析失败返回 0
func (s *settingService) GetInt(key string) int {
	v, err := strconv.Atoi(s.Get(key))
	if err != nil {
		return 0
	}
	return v
}

// GetDuration 将以秒为单位存储的配置读为 time.Duration
func (s *settingService) GetDuration(key string) time.Duration {
	return time.Duration(s.GetInt(key)) * time.Second
}

// GetByKeys 批量读取配置
func (s *settingService) GetByKeys(keys []string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		result[key] = s.cache[key]
	}
	return result
}
