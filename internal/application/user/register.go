package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. Application层负责用例编排，字段规则由领域服务校验
// 2. 公开注册只能选择buyer或seller,管理员账号只能通过createadmin命令创建
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	role := user.Role(req.UserType)
	if role != user.RoleBuyer && role != user.RoleSeller {
		return nil, user.ErrInvalidRole
	}

	u, err := uc.userService.Register(ctx, user.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return toUserResponse(u), nil
}

// CreateAdminUseCase 创建管理员(CLI createadmin)
type CreateAdminUseCase struct {
	userService user.Service
}

// NewCreateAdminUseCase 创建管理员用例
func NewCreateAdminUseCase(userService user.Service) *CreateAdminUseCase {
	return &CreateAdminUseCase{userService: userService}
}

// Execute 创建超级用户,加入Buyer和Admin组
func (uc *CreateAdminUseCase) Execute(ctx context.Context, req CreateAdminRequest) (*UserResponse, error) {
	u, err := uc.userService.Register(ctx, user.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      user.RoleAdmin,
		Superuser: true,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("admin created", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return toUserResponse(u), nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	UserType    string
	CompanyName string
}

// CreateAdminRequest 创建管理员请求
type CreateAdminRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserResponse 用户信息
// 说明：不返回密码字段
type UserResponse struct {
	ID          uint     `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	UserType    string   `json:"user_type"`
	CompanyName string   `json:"company_name,omitempty"`
	IsSuperuser bool     `json:"is_superuser"`
	Groups      []string `json:"groups"`
}

func toUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		UserType:    string(u.Role),
		CompanyName: u.CompanyName,
		IsSuperuser: u.IsSuperuser,
		Groups:      u.GroupNames(),
	}
}
