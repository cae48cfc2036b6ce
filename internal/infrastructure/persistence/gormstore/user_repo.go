package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// userRepository 用户仓储实现
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换(用户组通过user_groups关联表保存)
// 3. 处理数据库特定的错误（如邮箱重复），转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 1. 邮箱唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT）
// 2. 用户和用户组关系在同一事务中写入
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		roles, err := ensureRoles(tx, u.Groups)
		if err != nil {
			return err
		}

		model := &UserModel{
			Email:       u.Email,
			Password:    u.Password,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Role:        string(u.Role),
			CompanyName: u.CompanyName,
			IsSuperuser: u.IsSuperuser,
			Groups:      roles,
		}
		if err := tx.Omit("Groups.*").Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return user.ErrEmailDuplicate
			}
			return apperrors.Wrap(err, "创建用户失败")
		}

		u.ID = model.ID
		u.CreatedAt = model.CreatedAt
		u.UpdatedAt = model.UpdatedAt
		return nil
	})
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).Preload("Groups").First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户(邮箱入库前已转小写)
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Preload("Groups").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// ensureRoles 查询(必要时创建)用户组记录
func ensureRoles(db *gorm.DB, groups []user.Group) ([]RoleModel, error) {
	roles := make([]RoleModel, 0, len(groups))
	for _, g := range groups {
		role := RoleModel{Name: string(g)}
		if err := db.Where(RoleModel{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
			return nil, apperrors.Wrap(err, "写入用户组失败")
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	groups := make([]user.Group, len(model.Groups))
	for i, g := range model.Groups {
		groups[i] = user.Group(g.Name)
	}
	return &user.User{
		ID:          model.ID,
		Email:       model.Email,
		Password:    model.Password,
		FirstName:   model.FirstName,
		LastName:    model.LastName,
		Role:        user.Role(model.Role),
		CompanyName: model.CompanyName,
		IsSuperuser: model.IsSuperuser,
		Groups:      groups,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
