package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现,事务通过context传递
type Repository interface {
	// Create 创建订单(订单和明细在同一事务中写入)
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// LockByID 悲观锁查询订单(包含明细),必须在事务中调用
	// 并发取消同一订单时串行执行,库存只会回补一次
	LockByID(ctx context.Context, id uint) (*Order, error)

	// UpdateStatus 更新订单状态(明细不可变,只更新订单行)
	UpdateStatus(ctx context.Context, order *Order) error

	// List 分页查询订单,UserID为0时查询全部(仅管理员)
	List(ctx context.Context, params ListParams) ([]*Order, int64, error)
}

// ListParams 订单列表查询参数
type ListParams struct {
	UserID   uint
	Status   Status // 为空表示不过滤
	Page     int
	PageSize int
}
