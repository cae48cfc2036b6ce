package book

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// UpdateBookUseCase 修改图书用例(PUT全量/PATCH部分更新)
type UpdateBookUseCase struct {
	bookRepo    book.Repository
	bookService book.Service
	txManager   *gormstore.TxManager
	cache       Cache
}

// NewUpdateBookUseCase 创建修改图书用例
func NewUpdateBookUseCase(bookRepo book.Repository, bookService book.Service, txManager *gormstore.TxManager, cache Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookRepo:    bookRepo,
		bookService: bookService,
		txManager:   txManager,
		cache:       cache,
	}
}

// UpdateBookRequest 修改请求,nil字段表示不修改
type UpdateBookRequest struct {
	Title              *string
	Author             *string
	Description        *string
	PublishedDate      *time.Time
	ClearPublishedDate bool
	Price              *decimal.Decimal
	Stock              *int
}

// Execute 执行修改
// 1. 锁定图书行,防止与结算并发修改库存
// 2. 非所有者且非管理员视为图书不存在
// 3. 书名变化时重新检查唯一性并生成Slug
func (uc *UpdateBookUseCase) Execute(ctx context.Context, actor user.Principal, id uint, req UpdateBookRequest) (*BookResponse, error) {
	if !user.IsAdminOrSeller(actor) {
		return nil, apperrors.ErrForbidden
	}

	var (
		updated *book.Book
		oldSlug string
	)
	err := retryOnSlugConflict(func() error {
		return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
			b, err := uc.bookRepo.LockByID(txCtx, id)
			if err != nil {
				return err
			}
			if !user.IsOwnerOrAdmin(actor, b.SellerID) {
				return book.ErrBookNotFound
			}
			oldSlug = b.Slug

			if req.Title != nil {
				changed, err := b.Rename(*req.Title)
				if err != nil {
					return err
				}
				if changed {
					if err := uc.bookService.EnsureTitleAvailable(txCtx, b.Title, b.ID); err != nil {
						return err
					}
					if err := uc.bookService.AssignSlug(txCtx, b); err != nil {
						return err
					}
				}
			}
			if req.Author != nil {
				b.Author = *req.Author
			}
			if req.Description != nil {
				b.Description = *req.Description
			}
			if req.PublishedDate != nil {
				b.PublishedDate = req.PublishedDate
			} else if req.ClearPublishedDate {
				b.PublishedDate = nil
			}
			if req.Price != nil {
				if err := b.SetPrice(*req.Price); err != nil {
					return err
				}
			}
			if req.Stock != nil {
				if err := b.SetStock(*req.Stock); err != nil {
					return err
				}
				if err := uc.bookRepo.SetStock(txCtx, b.ID, b.Stock); err != nil {
					return err
				}
			}

			b.UpdatedAt = time.Now()
			if err := uc.bookRepo.Update(txCtx, b); err != nil {
				return err
			}
			updated = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, updated.ID, oldSlug)
	return toBookResponse(updated), nil
}
