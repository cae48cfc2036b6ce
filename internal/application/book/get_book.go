package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// GetBookUseCase 图书详情(公开接口,走缓存)
type GetBookUseCase struct {
	bookRepo book.Repository
	cache    Cache
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(bookRepo book.Repository, cache Cache) *GetBookUseCase {
	return &GetBookUseCase{bookRepo: bookRepo, cache: cache}
}

// ByID 按ID查询
// Cache-Aside:先查缓存,未命中查数据库并回填
func (uc *GetBookUseCase) ByID(ctx context.Context, id uint) (*BookResponse, error) {
	if b, err := uc.cache.GetBook(ctx, id); err != nil {
		zap.L().Warn("读取图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	} else if b != nil {
		return toBookResponse(b), nil
	}

	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetBook(ctx, b); err != nil {
		zap.L().Warn("写入图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
	return toBookResponse(b), nil
}

// BySlug 按Slug查询
// 缓存里只存Slug到ID的映射,详情仍复用ID缓存
func (uc *GetBookUseCase) BySlug(ctx context.Context, slug string) (*BookResponse, error) {
	id, err := uc.cache.GetSlugID(ctx, slug)
	if err != nil {
		zap.L().Warn("读取Slug缓存失败", zap.String("slug", slug), zap.Error(err))
	}
	if id != 0 {
		resp, err := uc.ByID(ctx, id)
		if err == nil && resp.Slug == slug {
			return resp, nil
		}
	}

	b, err := uc.bookRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetSlugID(ctx, slug, b.ID); err != nil {
		zap.L().Warn("写入Slug缓存失败", zap.String("slug", slug), zap.Error(err))
	}
	return toBookResponse(b), nil
}
