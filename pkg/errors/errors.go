package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，HTTP状态码由Code所在区间推导（见HTTPStatus）
// 2. Message是返回给客户端的提示信息
// 3. Fields是字段级校验错误（仅参数错误时使用）
// 4. Err是内部错误，只写日志，不返回给客户端
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 根据错误码区间映射HTTP状态码
//
//	400xx 业务规则  → 400
//	401xx 未认证    → 401
//	403xx 无权限    → 403
//	404xx 不存在    → 404
//	409xx 参数错误  → 400
//	5xxxx 服务端    → 500
func (e *AppError) HTTPStatus() int {
	switch e.Code / 100 {
	case 400, 409:
		return http.StatusBadRequest
	case 401:
		return http.StatusUnauthorized
	case 403:
		return http.StatusForbidden
	case 404:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// WithFields 返回附带字段错误的副本（预定义错误是共享的，不能直接修改）
func (e *AppError) WithFields(fields map[string]string) *AppError {
	cp := *e
	cp.Fields = fields
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：前三位决定HTTP状态码，后两位区分具体原因

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeMQError       = 50003 // 消息队列错误

	// 认证错误（40100-40199）
	ErrCodeUnauthorized       = 40100 // 未登录
	ErrCodeInvalidToken       = 40101 // Token无效
	ErrCodeTokenExpired       = 40102 // Token过期或已注销
	ErrCodeInvalidCredentials = 40103 // 邮箱或密码错误

	// 授权错误（40300-40399）
	ErrCodeForbidden    = 40300 // 无权限(通用)
	ErrCodeRoleRequired = 40301 // 缺少所需角色

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound     = 40401 // 用户不存在
	ErrCodeBookNotFound     = 40402 // 图书不存在
	ErrCodeOrderNotFound    = 40403 // 订单不存在
	ErrCodeCartItemNotFound = 40404 // 购物车条目不存在
	ErrCodeCompanyNotFound  = 40405 // 公司不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock  = 40001 // 库存不足
	ErrCodeInvalidOrderStatus = 40002 // 订单状态非法
	ErrCodeEmailDuplicate     = 40003 // 邮箱已存在
	ErrCodeTitleDuplicate     = 40004 // 书名已存在
	ErrCodeWeakPassword       = 40005 // 密码强度不足
	ErrCodeCartEmpty          = 40006 // 购物车为空
	ErrCodeCompanyExists      = 40007 // 已拥有公司
	ErrCodeDuplicateEntry     = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "Internal server error.")
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database error.")
	ErrRedisError    = New(ErrCodeRedisError, "Cache service error.")

	// 认证授权
	ErrUnauthorized       = New(ErrCodeUnauthorized, "Authentication credentials were not provided.")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "Invalid token.")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token is expired or revoked.")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "Invalid email or password.")
	ErrForbidden          = New(ErrCodeForbidden, "You do not have permission to perform this action.")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "Not found.")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid parameters.")
	ErrBindError     = New(ErrCodeBindError, "Malformed request body.")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error.")
}

// CodeOf 提取错误码，非AppError返回ErrCodeInternal
func CodeOf(err error) int {
	if err == nil {
		return 0
	}
	return GetAppError(err).Code
}
