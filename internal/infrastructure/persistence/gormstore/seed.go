package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// SeedGroups 幂等写入固定用户组(Buyer/Seller/Admin)
// serve启动和seed命令都会调用,重复执行不会产生重复记录
func SeedGroups(ctx context.Context, db *gorm.DB) error {
	_, err := ensureRoles(db.WithContext(ctx), user.AllGroups)
	return err
}
