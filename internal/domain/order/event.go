package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType 订单事件类型,同时作为消息的routing key
type EventType string

const (
	EventCreated   EventType = "order.created"
	EventCancelled EventType = "order.cancelled"
	EventShipped   EventType = "order.shipped"
)

// Event 订单事件(事务提交后发布)
type Event struct {
	Type       EventType       `json:"type"`
	OrderID    uint            `json:"order_id"`
	OrderNo    string          `json:"order_no"`
	UserID     uint            `json:"user_id"`
	Status     Status          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []EventItem     `json:"items"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventItem 事件中的明细
type EventItem struct {
	BookID    uint   `json:"book_id"`
	BookTitle string `json:"book_title"`
	Quantity  int    `json:"quantity"`
}

// NewEvent 根据订单当前状态构造事件
func NewEvent(t EventType, o *Order) Event {
	items := make([]EventItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = EventItem{BookID: item.BookID, BookTitle: item.BookTitle, Quantity: item.Quantity}
	}
	return Event{
		Type:       t,
		OrderID:    o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		Items:      items,
		OccurredAt: time.Now(),
	}
}

// EventTypeFor 状态对应的事件类型
func EventTypeFor(s Status) (EventType, bool) {
	switch s {
	case StatusCancelled:
		return EventCancelled, true
	case StatusShipped:
		return EventShipped, true
	}
	return "", false
}
