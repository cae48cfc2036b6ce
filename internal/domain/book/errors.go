package book

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found.")

	// ErrTitleDuplicate 书名已存在(不区分大小写)
	ErrTitleDuplicate = apperrors.New(apperrors.ErrCodeTitleDuplicate, "A book with this title already exists.")

	// ErrSlugDuplicate Slug冲突(并发创建同名图书时由唯一索引兜底)
	ErrSlugDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "A book with this slug already exists.")

	// ErrTitleRequired 书名为空
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "Title is required.")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "Price must be a positive amount with at most two decimal places.")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "Stock cannot be negative.")

	// ErrInsufficientStock 库存不足(条件更新失败时返回,结算流程会换成带书名的提示)
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "Not enough stock.")
)

// InsufficientStock 带书名和剩余数量的库存不足错误
func InsufficientStock(title string, available int) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock, "Not enough stock for %q. Only %d available.", title, available)
}
