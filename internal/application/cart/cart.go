package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
)

// CartUseCase 购物车用例
// 购物车只记录购买意向:加购不检查库存,也不扣减库存
type CartUseCase struct {
	cartRepo  cart.Repository
	bookRepo  book.Repository
	txManager *gormstore.TxManager
}

// NewCartUseCase 创建购物车用例
func NewCartUseCase(cartRepo cart.Repository, bookRepo book.Repository, txManager *gormstore.TxManager) *CartUseCase {
	return &CartUseCase{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// GetCart 查询当前用户的购物车,首次访问时创建
func (uc *CartUseCase) GetCart(ctx context.Context, userID uint) (*CartResponse, error) {
	c, err := uc.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// AddItem 加入购物车
// 1. 同一本书只有一行,重复加购累加数量
// 2. (cart_id, book_id)行加锁后再累加,并发加购不会丢失数量
// 3. 两个请求同时首次加购同一本书时,后插入的一方撞唯一索引,整个事务重试一次即可走累加分支
func (uc *CartUseCase) AddItem(ctx context.Context, userID, bookID uint, quantity int) (*ItemResponse, error) {
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if _, err := uc.bookRepo.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	item, err := uc.addItem(ctx, userID, bookID, quantity)
	if errors.Is(err, cart.ErrItemDuplicate) {
		zap.L().Debug("购物车条目并发创建,重试", zap.Uint("user_id", userID), zap.Uint("book_id", bookID))
		item, err = uc.addItem(ctx, userID, bookID, quantity)
	}
	if err != nil {
		return nil, err
	}

	// 带出书名和价格
	full, err := uc.cartRepo.FindItem(ctx, item.CartID, item.ID)
	if err != nil {
		return nil, err
	}
	return toItemResponse(full), nil
}

func (uc *CartUseCase) addItem(ctx context.Context, userID, bookID uint, quantity int) (*cart.Item, error) {
	var item *cart.Item
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUser(txCtx, userID)
		if err != nil {
			return err
		}

		existing, err := uc.cartRepo.LockItem(txCtx, c.ID, bookID)
		switch {
		case err == nil:
			if err := existing.Add(quantity); err != nil {
				return err
			}
			item = existing
			return uc.cartRepo.UpdateItemQuantity(txCtx, existing)
		case errors.Is(err, cart.ErrItemNotFound):
			created, err := cart.NewItem(c.ID, bookID, quantity)
			if err != nil {
				return err
			}
			item = created
			return uc.cartRepo.CreateItem(txCtx, created)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem 查询当前用户购物车中的条目,其他购物车的条目视为不存在
func (uc *CartUseCase) GetItem(ctx context.Context, userID, itemID uint) (*ItemResponse, error) {
	c, err := uc.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := uc.cartRepo.FindItem(ctx, c.ID, itemID)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// UpdateItem 修改条目数量
func (uc *CartUseCase) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*ItemResponse, error) {
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	var updated *cart.Item
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUser(txCtx, userID)
		if err != nil {
			return err
		}
		item, err := uc.cartRepo.FindItem(txCtx, c.ID, itemID)
		if err != nil {
			return err
		}
		if err := item.SetQuantity(quantity); err != nil {
			return err
		}
		updated = item
		return uc.cartRepo.UpdateItemQuantity(txCtx, item)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(updated), nil
}

// DeleteItem 删除条目
func (uc *CartUseCase) DeleteItem(ctx context.Context, userID, itemID uint) error {
	c, err := uc.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return uc.cartRepo.DeleteItem(ctx, c.ID, itemID)
}
