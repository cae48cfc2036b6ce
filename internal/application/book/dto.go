package book

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// DateLayout 出版日期格式
const DateLayout = "2006-01-02"

// BookResponse 图书响应DTO
// 价格以字符串返回("10.00"),避免客户端用浮点数处理金额
type BookResponse struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	PublishedDate *string `json:"published_date"`
	Price         string  `json:"price"`
	Stock         int     `json:"stock"`
	SellerID      uint    `json:"seller_id"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// ListBooksResponse 分页列表
type ListBooksResponse struct {
	List     []*BookResponse `json:"list"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func toBookResponse(b *book.Book) *BookResponse {
	resp := &BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price.StringFixed(2),
		Stock:       b.Stock,
		SellerID:    b.SellerID,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
	if b.PublishedDate != nil {
		d := b.PublishedDate.Format(DateLayout)
		resp.PublishedDate = &d
	}
	return resp
}
