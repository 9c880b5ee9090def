package sitemap

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/anzhiyu-c/easy-sitemap/internal/configdef"
	"github.com/anzhiyu-c/easy-sitemap/pkg/constant"
	"github.com/anzhiyu-c/easy-sitemap/pkg/domain/model"
)

// fakeSettings 是测试用的内存配置服务，基于代码默认值加用例覆盖
type fakeSettings struct {
	values map[string]string
}

func newFakeSettings(overrides map[string]string) *fakeSettings {
	values := make(map[string]string)
	for _, def := range configdef.AllSettings {
		values[def.Key.String()] = def.Value
	}
	values[constant.KeySiteURL.String()] = "https://example.com"
	values[constant.KeySiteName.String()] = "示例站点"
	for k, v := range overrides {
		values[k] = v
	}
	return &fakeSettings{values: values}
}

func (f *fakeSettings) LoadAllSettings(ctx context.Context) error { return nil }

func (f *fakeSettings) Get(key string) string { return f.values[key] }

func (f *fakeSettings) GetBool(key string) bool {
	v, err := strconv.ParseBool(f.values[key])
	if err != nil {
		return false
	}
	return v
}

func (f *fakeSettings) GetInt(key string) int {
	v, err := strconv.Atoi(f.values[key])
	if err != nil {
		return 0
	}
	return v
}

func (f *fakeSettings) GetDuration(key string) time.Duration {
	return time.Duration(f.GetInt(key)) * time.Second
}

func (f *fakeSettings) GetByKeys(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = f.values[k]
	}
	return out
}

func (f *fakeSettings) UpdateSettings(ctx context.Context, settings map[string]string) error {
	for k, v := range settings {
		f.values[k] = v
	}
	return nil
}

// fakeContentRepo 是测试用的内存内容仓储
type fakeContentRepo struct {
	items   []*model.ContentItem
	listErr error
}

func (f *fakeContentRepo) List(ctx context.Context, opts *model.ListContentOptions) ([]*model.ContentItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.ContentItem
	for _, item := range f.items {
		if opts.Type != "" && item.Type != opts.Type {
			continue
		}
		if opts.Status != "" && item.Status != opts.Status {
			continue
		}
		if !opts.IncludeExcluded && item.Excluded {
			continue
		}
		if opts.Year != 0 && (item.CreatedAt.Year() != opts.Year || int(item.CreatedAt.Month()) != opts.Month) {
			continue
		}
		if opts.CategorySlug != "" {
			found := false
			for _, cat := range item.Categories {
				if cat.Slug == opts.CategorySlug {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if !opts.After.IsZero() && !item.CreatedAt.After(opts.After) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeContentRepo) GetByID(ctx context.Context, id int64) (*model.ContentItem, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (f *fakeContentRepo) ListMonths(ctx context.Context, contentType string) ([]model.MonthBucket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]time.Time)
	for _, item := range f.items {
		if item.Type != contentType || item.Status != model.StatusPublished || item.Excluded {
			continue
		}
		k := key{item.CreatedAt.Year(), item.CreatedAt.Month()}
		if item.UpdatedAt.After(buckets[k]) {
			buckets[k] = item.UpdatedAt
		}
	}
	out := make([]model.MonthBucket, 0, len(buckets))
	for k, lastMod := range buckets {
		out = append(out, model.MonthBucket{Year: k.year, Month: k.month, LastModified: lastMod})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (f *fakeContentRepo) Create(ctx context.Context, item *model.ContentItem) error {
	item.ID = int64(len(f.items) + 1)
	f.items = append(f.items, item)
	return nil
}

func (f *fakeContentRepo) Update(ctx context.Context, item *model.ContentItem) error {
	for i, existing := range f.items {
		if existing.ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	return constant.ErrNotFound
}

func (f *fakeContentRepo) Delete(ctx context.Context, id int64) error {
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return constant.ErrNotFound
}

func (f *fakeContentRepo) SetStatus(ctx context.Context, id int64, status model.Status) error {
	item, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	item.Status = status
	return nil
}

func (f *fakeContentRepo) SetExcluded(ctx context.Context, id int64, excluded bool) error {
	item, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	item.Excluded = excluded
	return nil
}

// fakeTermRepo 是测试用的内存分类法仓储
type fakeTermRepo struct {
	terms  []*model.Term
	getErr error // 注入的查询故障
}

func (f *fakeTermRepo) ListByTaxonomy(ctx context.Context, taxonomy string) ([]*model.Term, error) {
	var out []*model.Term
	for _, term := range f.terms {
		if term.Taxonomy == taxonomy {
			out = append(out, term)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTermRepo) GetBySlug(ctx context.Context, taxonomy, slug string) (*model.Term, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, term := range f.terms {
		if term.Taxonomy == taxonomy && term.Slug == slug {
			return term, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (f *fakeTermRepo) GetByID(ctx context.Context, id int64) (*model.Term, error) {
	for _, term := range f.terms {
		if term.ID == id {
			return term, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (f *fakeTermRepo) Create(ctx context.Context, term *model.Term) error {
	term.ID = int64(len(f.terms) + 1)
	f.terms = append(f.terms, term)
	return nil
}

func (f *fakeTermRepo) Update(ctx context.Context, term *model.Term) error {
	for i, existing := range f.terms {
		if existing.ID == term.ID {
			f.terms[i] = term
			return nil
		}
	}
	return constant.ErrNotFound
}

func (f *fakeTermRepo) Delete(ctx context.Context, id int64) error {
	for i, term := range f.terms {
		if term.ID == id {
			f.terms = append(f.terms[:i], f.terms[i+1:]...)
			return nil
		}
	}
	return constant.ErrNotFound
}

// fakeSettingRepo 是测试用的内存配置仓储
type fakeSettingRepo struct {
	store map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{store: make(map[string]string)}
}

func (f *fakeSettingRepo) FindAll(ctx context.Context) ([]*model.Setting, error) {
	out := make([]*model.Setting, 0, len(f.store))
	for k, v := range f.store {
		out = append(out, &model.Setting{ConfigKey: k, Value: v})
	}
	return out, nil
}

func (f *fakeSettingRepo) Update(ctx context.Context, settings map[string]string) error {
	for k, v := range settings {
		f.store[k] = v
	}
	return nil
}
