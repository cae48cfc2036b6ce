package dto

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CreateBookRequest 上架/全量修改请求(POST、PUT)
// price接受数字或字符串("19.99"),最多两位小数由领域层校验
type CreateBookRequest struct {
	Title         string          `json:"title" binding:"required,max=200" example:"The Go Programming Language"`
	Author        string          `json:"author" binding:"required,max=100" example:"Alan Donovan"`
	Description   string          `json:"description" binding:"max=5000" example:""`
	PublishedDate string          `json:"published_date" binding:"omitempty,datetime=2006-01-02" example:"2015-10-26"`
	Price         decimal.Decimal `json:"price" binding:"required,decimal_gt0" swaggertype:"string" example:"39.99"`
	Stock         *int            `json:"stock" binding:"required,min=0" example:"10"`
}

// PatchBookRequest 部分修改请求(PATCH),未出现的字段不修改
type PatchBookRequest struct {
	Title         *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Author        *string          `json:"author" binding:"omitempty,max=100"`
	Description   *string          `json:"description" binding:"omitempty,max=5000"`
	PublishedDate *string          `json:"published_date" binding:"omitempty"`
	Price         *decimal.Decimal `json:"price" binding:"omitempty,decimal_gt0" swaggertype:"string"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"go"`
	SellerID uint   `form:"seller_id" binding:"omitempty" example:"0"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc title_asc" example:"created_at_desc"`
}

// ParseDate 解析YYYY-MM-DD,空字符串返回nil
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, apperrors.ErrInvalidParams.WithFields(map[string]string{
			"published_date": "Date has wrong format. Use YYYY-MM-DD.",
		})
	}
	return &t, nil
}
