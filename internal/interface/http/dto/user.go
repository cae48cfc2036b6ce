package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag;密码强度、公司名称规则由领域服务校验
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=254" example:"alice@example.com"`
	Password    string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	FirstName   string `json:"first_name" binding:"required,max=50" example:"Alice"`
	LastName    string `json:"last_name" binding:"required,max=50" example:"Smith"`
	UserType    string `json:"user_type" binding:"required,oneof=buyer seller" example:"buyer"`
	CompanyName string `json:"company_name" binding:"max=255" example:""`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest 刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
