package company

import (
	"context"
)

// Repository 公司仓储接口
type Repository interface {
	// Create 创建公司,owner_id冲突时返回ErrCompanyExists
	Create(ctx context.Context, company *Company) error

	FindByID(ctx context.Context, id uint) (*Company, error)

	// FindByOwner 查询用户名下的公司,没有时返回ErrCompanyNotFound
	FindByOwner(ctx context.Context, ownerID uint) (*Company, error)

	// Update 更新公司资料(owner_id不会被写入)
	Update(ctx context.Context, company *Company) error

	Delete(ctx context.Context, id uint) error

	// List 分页查询全部公司
	List(ctx context.Context, page, pageSize int) ([]*Company, int64, error)
}
