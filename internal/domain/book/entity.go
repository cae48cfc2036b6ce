package book

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 价格使用decimal.Decimal(对应DECIMAL(10,2)),避免float精度问题
// 2. Slug由书名派生,全局唯一,书名变更时重新生成
// 3. SellerID关联发布图书的卖家(对象级权限判断依据)
type Book struct {
	ID            uint
	Title         string
	Slug          string
	Author        string
	Description   string
	PublishedDate *time.Time
	Price         decimal.Decimal
	Stock         int
	SellerID      uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书(工厂方法)
// Slug由调用方在事务内通过UniqueSlug生成后赋值
func NewBook(title, author, description string, publishedDate *time.Time, price decimal.Decimal, stock int, sellerID uint) (*Book, error) {
	b := &Book{
		Title:         strings.TrimSpace(title),
		Author:        strings.TrimSpace(author),
		Description:   description,
		PublishedDate: publishedDate,
		SellerID:      sellerID,
	}
	if b.Title == "" {
		return nil, ErrTitleRequired
	}
	if err := b.SetPrice(price); err != nil {
		return nil, err
	}
	if err := b.SetStock(stock); err != nil {
		return nil, err
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// SetPrice 更新价格
// 业务规则:价格必须>0,最多两位小数
func (b *Book) SetPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if !price.Equal(price.Round(2)) {
		return ErrInvalidPrice
	}
	b.Price = price
	b.UpdatedAt = time.Now()
	return nil
}

// SetStock 直接设置库存(管理员补货/盘点)
func (b *Book) SetStock(stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	b.Stock = stock
	b.UpdatedAt = time.Now()
	return nil
}

// Rename 修改书名,返回书名是否真的变化(变化时需要重新生成Slug)
func (b *Book) Rename(title string) (bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, ErrTitleRequired
	}
	if title == b.Title {
		return false, nil
	}
	b.Title = title
	b.UpdatedAt = time.Now()
	return true, nil
}

// HasStock 库存是否足够
func (b *Book) HasStock(quantity int) bool {
	return b.Stock >= quantity
}

// IsOwnedBy 检查图书是否由指定卖家发布
func (b *Book) IsOwnedBy(userID uint) bool {
	return userID != 0 && b.SellerID == userID
}
