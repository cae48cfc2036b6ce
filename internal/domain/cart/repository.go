package cart

import (
	"context"
)

// Repository 购物车仓储接口
type Repository interface {
	// GetOrCreate 获取用户的购物车(含条目),不存在则创建空购物车
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)

	// LockByUser 锁定用户的购物车行(SELECT ... FOR UPDATE)并读取条目,不存在则先创建
	// 必须是事务里的第一条读:同一用户的结算和购物车修改在这一行上排队
	LockByUser(ctx context.Context, userID uint) (*Cart, error)

	// LockItem 锁定(cart_id, book_id)条目,不存在返回ErrItemNotFound
	LockItem(ctx context.Context, cartID, bookID uint) (*Item, error)

	// FindItem 按条目ID查找,限定在cartID内(跨购物车访问视为不存在)
	FindItem(ctx context.Context, cartID, itemID uint) (*Item, error)

	// CreateItem 新增条目,(cart_id, book_id)冲突时返回ErrItemDuplicate
	CreateItem(ctx context.Context, item *Item) error

	// UpdateItemQuantity 更新条目数量
	UpdateItemQuantity(ctx context.Context, item *Item) error

	// DeleteItem 删除条目,限定在cartID内
	DeleteItem(ctx context.Context, cartID, itemID uint) error

	// Clear 清空购物车条目(购物车本身保留)
	Clear(ctx context.Context, cartID uint) error
}
