package user

import (
	"context"
)

// Repository 用户仓储接口
type Repository interface {
	// Create 创建用户并写入用户组关系
	// 邮箱重复时返回ErrEmailDuplicate(由UNIQUE索引保证)
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户(含用户组)
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户(含用户组)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
