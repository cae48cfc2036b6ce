package order

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在(也用于非本人访问,避免泄露订单是否存在)
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "Order not found.")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "Invalid status transition.")

	// ErrNotCancellable 只有pending订单可以取消
	ErrNotCancellable = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "Only pending orders can be cancelled.")

	// ErrUnknownStatus 未知的订单状态
	ErrUnknownStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid status value.")

	// ErrInvalidOrderItems 订单明细不能为空
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "Order must contain at least one item.")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "Quantity must be greater than 0.")
)
