package cart

import (
	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// CartResponse 购物车响应
type CartResponse struct {
	ID         uint            `json:"id"`
	Items      []*ItemResponse `json:"items"`
	TotalPrice string          `json:"total_price"`
}

// ItemResponse 购物车条目响应
type ItemResponse struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	BookTitle string `json:"book_title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

func toCartResponse(c *cart.Cart) *CartResponse {
	items := make([]*ItemResponse, len(c.Items))
	for i := range c.Items {
		items[i] = toItemResponse(&c.Items[i])
	}
	return &CartResponse{
		ID:         c.ID,
		Items:      items,
		TotalPrice: c.Total().StringFixed(2),
	}
}

func toItemResponse(item *cart.Item) *ItemResponse {
	return &ItemResponse{
		ID:        item.ID,
		BookID:    item.BookID,
		BookTitle: item.BookTitle,
		Price:     item.BookPrice.StringFixed(2),
		Quantity:  item.Quantity,
		Subtotal:  item.Subtotal().StringFixed(2),
	}
}
