package order

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// CheckoutResponse 结算响应
type CheckoutResponse struct {
	OrderID    uint               `json:"order_id"`
	Status     string             `json:"status"`
	TotalPrice string             `json:"total_price"`
	Items      []CheckoutLineItem `json:"items"`
}

// CheckoutLineItem 结算响应中的明细
type CheckoutLineItem struct {
	BookTitle string `json:"book_title"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse 订单详情
type OrderResponse struct {
	ID         uint                 `json:"id"`
	OrderNo    string               `json:"order_no"`
	UserID     uint                 `json:"user_id"`
	Status     string               `json:"status"`
	TotalPrice string               `json:"total_price"`
	Items      []*OrderItemResponse `json:"items"`
	CreatedAt  string               `json:"created_at"`
	UpdatedAt  string               `json:"updated_at"`
}

// OrderItemResponse 订单明细
type OrderItemResponse struct {
	BookID    uint   `json:"book_id"`
	BookTitle string `json:"book_title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// ListOrdersResponse 订单列表
type ListOrdersResponse struct {
	List     []*OrderResponse `json:"list"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func toCheckoutResponse(o *order.Order) *CheckoutResponse {
	items := make([]CheckoutLineItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = CheckoutLineItem{BookTitle: item.BookTitle, Quantity: item.Quantity}
	}
	return &CheckoutResponse{
		OrderID:    o.ID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice.StringFixed(2),
		Items:      items,
	}
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]*OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = &OrderItemResponse{
			BookID:    item.BookID,
			BookTitle: item.BookTitle,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		}
	}
	return &OrderResponse{
		ID:         o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice.StringFixed(2),
		Items:      items,
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  o.UpdatedAt.Format(time.RFC3339),
	}
}
