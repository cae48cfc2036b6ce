package cart

import (
	"fmt"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 购物车领域错误定义
var (
	ErrCartEmpty        = apperrors.New(apperrors.ErrCodeCartEmpty, "Cart is empty")
	ErrItemNotFound     = apperrors.New(apperrors.ErrCodeCartItemNotFound, "Cart item not found.")
	ErrInvalidQuantity  = apperrors.New(apperrors.ErrCodeInvalidParams, "Quantity must be greater than 0.")
	ErrQuantityTooLarge = apperrors.New(apperrors.ErrCodeInvalidParams, fmt.Sprintf("Quantity must not exceed %d.", MaxQuantity))
	ErrItemDuplicate    = apperrors.New(apperrors.ErrCodeDuplicateEntry, "Cart item already exists.")
)
