package user

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound          = apperrors.New(apperrors.ErrCodeUserNotFound, "User not found.")
	ErrEmailDuplicate        = apperrors.New(apperrors.ErrCodeEmailDuplicate, "A user with this email already exists.")
	ErrInvalidEmail          = apperrors.New(apperrors.ErrCodeInvalidParams, "Enter a valid email address.")
	ErrWeakPassword          = apperrors.New(apperrors.ErrCodeWeakPassword, "Password must be 8-20 characters and contain both letters and digits.")
	ErrInvalidName           = apperrors.New(apperrors.ErrCodeInvalidParams, "First and last name are required (max 50 characters).")
	ErrInvalidRole           = apperrors.New(apperrors.ErrCodeInvalidParams, "User type must be buyer or seller.")
	ErrSellerCompanyRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "Sellers must provide a company name.")
	ErrBuyerCompanyForbidden = apperrors.New(apperrors.ErrCodeInvalidParams, "Buyers should not provide a company name.")
)
