package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// Cache 图书目录缓存(Redis实现见persistence/redis.BookCache)
// 缓存失败不影响主流程:读失败回源数据库,写失败只记录日志
type Cache interface {
	GetBook(ctx context.Context, id uint) (*book.Book, error)
	SetBook(ctx context.Context, b *book.Book) error
	GetSlugID(ctx context.Context, slug string) (uint, error)
	SetSlugID(ctx context.Context, slug string, id uint) error
	GetList(ctx context.Context, params book.ListParams) (*book.Page, error)
	SetList(ctx context.Context, params book.ListParams, page *book.Page) error
	InvalidateBooks(ctx context.Context, ids ...uint) error
	InvalidateSlugs(ctx context.Context, slugs ...string) error
}

// NopCache 不缓存(cache.enabled=false或测试时使用)
type NopCache struct{}

func (NopCache) GetBook(context.Context, uint) (*book.Book, error)                 { return nil, nil }
func (NopCache) SetBook(context.Context, *book.Book) error                         { return nil }
func (NopCache) GetSlugID(context.Context, string) (uint, error)                   { return 0, nil }
func (NopCache) SetSlugID(context.Context, string, uint) error                     { return nil }
func (NopCache) GetList(context.Context, book.ListParams) (*book.Page, error)      { return nil, nil }
func (NopCache) SetList(context.Context, book.ListParams, *book.Page) error         { return nil }
func (NopCache) InvalidateBooks(context.Context, ...uint) error                    { return nil }
func (NopCache) InvalidateSlugs(context.Context, ...string) error                  { return nil }

// invalidate 写操作提交后删除缓存
func invalidate(ctx context.Context, cache Cache, id uint, slugs ...string) {
	if err := cache.InvalidateBooks(ctx, id); err != nil {
		zap.L().Warn("删除图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
	if err := cache.InvalidateSlugs(ctx, slugs...); err != nil {
		zap.L().Warn("删除Slug缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
}
