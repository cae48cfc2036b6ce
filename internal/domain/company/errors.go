package company

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 公司领域错误定义
var (
	ErrCompanyNotFound = apperrors.New(apperrors.ErrCodeCompanyNotFound, "Company not found.")
	ErrCompanyExists   = apperrors.New(apperrors.ErrCodeCompanyExists, "You already own a company.")
	ErrSellerRequired  = apperrors.New(apperrors.ErrCodeRoleRequired, "Only sellers can create a company.")
	ErrInvalidName     = apperrors.New(apperrors.ErrCodeInvalidParams, "Company name is required (max 255 characters).")
	ErrInvalidWebsite  = apperrors.New(apperrors.ErrCodeInvalidParams, "Enter a valid URL.")
)
