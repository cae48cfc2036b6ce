package book

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CreateBookUseCase 图书上架用例
// 设计说明:
// 1. 应用层负责用例编排:权限判断、事务、缓存失效
// 2. 书名唯一、Slug生成由领域服务负责,在同一事务内完成
type CreateBookUseCase struct {
	bookRepo    book.Repository
	bookService book.Service
	txManager   *gormstore.TxManager
	cache       Cache
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookRepo book.Repository, bookService book.Service, txManager *gormstore.TxManager, cache Cache) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookRepo:    bookRepo,
		bookService: bookService,
		txManager:   txManager,
		cache:       cache,
	}
}

// CreateBookRequest 上架请求DTO
type CreateBookRequest struct {
	Title         string
	Author        string
	Description   string
	PublishedDate *time.Time
	Price         decimal.Decimal
	Stock         int
}

// Execute 执行上架用例,卖家ID取当前用户
func (uc *CreateBookUseCase) Execute(ctx context.Context, actor user.Principal, req CreateBookRequest) (*BookResponse, error) {
	if !user.IsAdminOrSeller(actor) {
		return nil, apperrors.ErrForbidden
	}

	b, err := book.NewBook(req.Title, req.Author, req.Description, req.PublishedDate, req.Price, req.Stock, actor.UserID)
	if err != nil {
		return nil, err
	}

	err = retryOnSlugConflict(func() error {
		return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
			if err := uc.bookService.EnsureTitleAvailable(txCtx, b.Title, 0); err != nil {
				return err
			}
			if err := uc.bookService.AssignSlug(txCtx, b); err != nil {
				return err
			}
			return uc.bookRepo.Create(txCtx, b)
		})
	})
	if err != nil {
		return nil, err
	}

	// 新书会出现在列表里,列表缓存需要失效
	invalidate(ctx, uc.cache, b.ID)
	zap.L().Info("book created", zap.Uint("book_id", b.ID), zap.String("slug", b.Slug), zap.Uint("seller_id", b.SellerID))

	return toBookResponse(b), nil
}

// retryOnSlugConflict 两个并发写入生成了相同的Slug时,唯一索引拒绝后提交的一方;
// 整个事务重做一次,重新生成的Slug能看到对方已提交的记录,会带上数字后缀
func retryOnSlugConflict(fn func() error) error {
	err := fn()
	if errors.Is(err, book.ErrSlugDuplicate) {
		zap.L().Debug("Slug并发冲突,重试")
		err = fn()
	}
	return err
}
