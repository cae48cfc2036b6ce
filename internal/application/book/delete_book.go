package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// DeleteBookUseCase 下架图书(软删除)
// 历史订单的明细是快照,不受影响;取消这些订单时库存仍会回补到已下架的图书上
type DeleteBookUseCase struct {
	bookRepo  book.Repository
	txManager *gormstore.TxManager
	cache     Cache
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(bookRepo book.Repository, txManager *gormstore.TxManager, cache Cache) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookRepo: bookRepo, txManager: txManager, cache: cache}
}

// Execute 执行下架
func (uc *DeleteBookUseCase) Execute(ctx context.Context, actor user.Principal, id uint) error {
	if !user.IsAdminOrSeller(actor) {
		return apperrors.ErrForbidden
	}

	var slug string
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookRepo.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if !user.IsOwnerOrAdmin(actor, b.SellerID) {
			return book.ErrBookNotFound
		}
		slug = b.Slug
		return uc.bookRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	invalidate(ctx, uc.cache, id, slug)
	zap.L().Info("book deleted", zap.Uint("book_id", id), zap.Uint("operator", actor.UserID))
	return nil
}
