package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListBooksUseCase 图书列表(公开接口,走缓存)
type ListBooksUseCase struct {
	bookRepo book.Repository
	cache    Cache
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookRepo book.Repository, cache Cache) *ListBooksUseCase {
	return &ListBooksUseCase{bookRepo: bookRepo, cache: cache}
}

// ListBooksRequest 列表查询参数
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string
	SellerID uint
	SortBy   string // price_asc | price_desc | created_at_desc | title_asc
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	params := normalize(req)

	page, err := uc.cache.GetList(ctx, params)
	if err != nil {
		zap.L().Warn("读取列表缓存失败", zap.Error(err))
	}
	if page == nil {
		books, total, err := uc.bookRepo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		page = &book.Page{Books: books, Total: total}
		if err := uc.cache.SetList(ctx, params, page); err != nil {
			zap.L().Warn("写入列表缓存失败", zap.Error(err))
		}
	}

	list := make([]*BookResponse, len(page.Books))
	for i, b := range page.Books {
		list[i] = toBookResponse(b)
	}
	return &ListBooksResponse{
		List:     list,
		Total:    page.Total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// normalize 分页兜底,未知排序方式按最新上架
func normalize(req ListBooksRequest) book.ListParams {
	p := book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SellerID: req.SellerID,
		SortBy:   req.SortBy,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	switch p.SortBy {
	case "price_asc", "price_desc", "created_at_desc", "title_asc":
	default:
		p.SortBy = "created_at_desc"
	}
	return p
}
