package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 所有方法都通过ctx参与调用方开启的事务
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(不含已删除)
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindBySlug 根据Slug查找图书
	FindBySlug(ctx context.Context, slug string) (*Book, error)

	// Update 更新图书信息(不含库存)
	Update(ctx context.Context, book *Book) error

	// SetStock 直接设置库存(卖家补货/盘点),调用方需先LockByID
	SetStock(ctx context.Context, id uint, stock int) error

	// Delete 删除图书(软删除,历史订单仍能回补库存)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// TitleExists 书名是否已被其他图书使用(不区分大小写,excludeID为0表示不排除)
	TitleExists(ctx context.Context, title string, excludeID uint) (bool, error)

	// SlugsWithPrefix 查询以base开头的已有Slug(生成唯一Slug用,excludeID的Slug不计入)
	SlugsWithPrefix(ctx context.Context, base string, excludeID uint) ([]string, error)

	// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
	// 必须在事务中调用,锁在事务结束时释放
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 原子更新库存
	// delta为正数表示回补,负数表示扣减;扣减后库存不能为负,否则返回ErrInsufficientStock
	// 包含已软删除的图书(取消历史订单时仍需回补)
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(标题、作者)
	SellerID uint   // 按卖家过滤(0表示不过滤)
	SortBy   string // price_asc | price_desc | created_at_desc | title_asc
}

// Page 分页查询结果(也是列表缓存的内容)
type Page struct {
	Books []*Book `json:"books"`
	Total int64   `json:"total"`
}
