/*
 * @Description: 内容管理服务，写操作落库后发布变更事件
 * @Author: 安知鱼
 * @Date: 2025-12-14 10:18:56
 * @LastEditTime: 2026-01-21 09:32:15
 * @LastEditors: 安知鱼
 */
package content

import (
	"context"
	"fmt"

	"github.com/anzhiyu-c/easy-sitemap/internal/pkg/event"
	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/repository"
)

// Service 内容管理服务接口。
// 所有写操作先落库，成功后异步发布事件；订阅者出错不影响写入方。
type Service interface {
	Get(ctx context.Context, id int64) (*model.ContentItem, error)
	List(ctx context.Context, opts *model.ListContentOptions) ([]*model.ContentItem, error)
	Create(ctx context.Context, item *model.ContentItem) error
	Update(ctx context.Context, item *model.ContentItem) error
	Delete(ctx context.Context, id int64) error
	Trash(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	SetExcluded(ctx context.Context, id int64, excluded bool) error

	GetTerm(ctx context.Context, taxonomy, slug string) (*model.Term, error)
	ListTerms(ctx context.Context, taxonomy string) ([]*model.Term, error)
	CreateTerm(ctx context.Context, term *model.Term) error
	UpdateTerm(ctx context.Context, term *model.Term) error
	DeleteTerm(ctx context.Context, id int64) error
}

type service struct {
	contentRepo repository.ContentRepository
	termRepo    repository.TermRepository
	bus         *event.EventBus
}

// NewService 创建内容管理服务
func NewService(contentRepo repository.ContentRepository, termRepo repository.TermRepository, bus *event.EventBus) Service {
	return &service{
		contentRepo: contentRepo,
		termRepo:    termRepo,
		bus:         bus,
	}
}

func (s *service) Get(ctx context.Context, id int64) (*model.ContentItem, error) {
	return s.contentRepo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, opts *model.ListContentOptions) ([]*model.ContentItem, error) {
	return s.contentRepo.List(ctx, opts)
}

// Create 创建内容条目；直接以已发布状态创建时同时发出发布事件
func (s *service) Create(ctx context.Context, item *model.ContentItem) error {
	if err := s.contentRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("创建内容失败: %w", err)
	}
	s.bus.Publish(event.PostCreated, model.PostEvent{Item: item})
	if item.Status == model.StatusPublished {
		s.bus.Publish(event.PostPublished, model.PostEvent{Item: item})
	}
	return nil
}

// Update 更新内容条目；进入或保持已发布状态时发出发布事件
func (s *service) Update(ctx context.Context, item *model.ContentItem) error {
	old, err := s.contentRepo.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if err := s.contentRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("更新内容失败: %w", err)
	}
	s.bus.Publish(event.PostUpdated, model.PostEvent{Item: item, OldStatus: old.Status})
	if item.Status == model.StatusPublished {
		s.bus.Publish(event.PostPublished, model.PostEvent{Item: item, OldStatus: old.Status})
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.contentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除内容失败: %w", err)
	}
	s.bus.Publish(event.PostDeleted, model.PostEvent{Item: item, OldStatus: item.Status})
	return nil
}

func (s *service) Trash(ctx context.Context, id int64) error {
	item, err := s.setStatus(ctx, id, model.StatusTrashed)
	if err != nil {
		return err
	}
	s.bus.Publish(event.PostTrashed, model.PostEvent{Item: item})
	return nil
}

func (s *service) Restore(ctx context.Context, id int64) error {
	item, err := s.setStatus(ctx, id, model.StatusPublished)
	if err != nil {
		return err
	}
	s.bus.Publish(event.PostRestored, model.PostEvent{Item: item})
	s.bus.Publish(event.PostPublished, model.PostEvent{Item: item, OldStatus: model.StatusTrashed})
	return nil
}

func (s *service) setStatus(ctx context.Context, id int64, status model.Status) (*model.ContentItem, error) {
	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.contentRepo.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("更新内容状态失败: %w", err)
	}
	item.Status = status
	return item, nil
}

// SetExcluded 切换排除标记，走和内容变更相同的失效路径
func (s *service) SetExcluded(ctx context.Context, id int64, excluded bool) error {
	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.contentRepo.SetExcluded(ctx, id, excluded); err != nil {
		return fmt.Errorf("更新排除标记失败: %w", err)
	}
	item.Excluded = excluded
	s.bus.Publish(event.PostExcludeToggled, model.PostEvent{Item: item})
	return nil
}

func (s *service) GetTerm(ctx context.Context, taxonomy, slug string) (*model.Term, error) {
	term, err := s.termRepo.GetBySlug(ctx, taxonomy, slug)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, constant.ErrNotFound
	}
	return term, nil
}

func (s *service) ListTerms(ctx context.Context, taxonomy string) ([]*model.Term, error) {
	return s.termRepo.ListByTaxonomy(ctx, taxonomy)
}

func (s *service) CreateTerm(ctx context.Context, term *model.Term) error {
	if err := s.termRepo.Create(ctx, term); err != nil {
		return fmt.Errorf("创建分类法条目失败: %w", err)
	}
	s.bus.Publish(event.TermCreated, model.TermEvent{Term: term})
	return nil
}

func (s *service) UpdateTerm(ctx context.Context, term *model.Term) error {
	if err := s.termRepo.Update(ctx, term); err != nil {
		return fmt.Errorf("更新分类法条目失败: %w", err)
	}
	s.bus.Publish(event.TermUpdated, model.TermEvent{Term: term})
	return nil
}

func (s *service) DeleteTerm(ctx context.Context, id int64) error {
	term, err := s.termRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.termRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除分类法条目失败: %w", err)
	}
	s.bus.Publish(event.TermDeleted, model.TermEvent{Term: term})
	return nil
}
