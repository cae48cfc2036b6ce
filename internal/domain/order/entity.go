package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态
// 存储为字符串(pending/shipped/cancelled),接口直接返回该值
type Status string

const (
	StatusPending   Status = "pending"   // 待发货
	StatusShipped   Status = "shipped"   // 已发货
	StatusCancelled Status = "cancelled" // 已取消
)

// transitions 合法的状态转换
// shipped和cancelled是终态,没有后续状态
var transitions = map[Status][]Status{
	StatusPending: {StatusShipped, StatusCancelled},
}

// Valid 是否为已知状态
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus 解析状态字符串
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// Order 订单实体(聚合根)
// 1. Order是聚合根,Item是子实体,只能通过结算创建
// 2. TotalPrice冗余存储,等于各明细单价*数量之和
// 3. 明细是下单时的快照,创建后不再修改
type Order struct {
	ID         uint
	OrderNo    string
	UserID     uint
	Status     Status
	TotalPrice decimal.Decimal
	Items      []Item
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Item 订单明细(下单时的快照)
// 不直接引用Book对象,只保存BookID和下单时的书名、单价
type Item struct {
	ID        uint
	OrderID   uint
	BookID    uint
	BookTitle string
	Quantity  int
	Price     decimal.Decimal
}

// NewItem 创建明细快照
func NewItem(bookID uint, title string, quantity int, price decimal.Decimal) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{BookID: bookID, BookTitle: title, Quantity: quantity, Price: price}, nil
}

// Subtotal 明细小计
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为pending,总价由明细计算得出
func NewOrder(orderNo string, userID uint, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	now := time.Now()
	o := &Order{
		OrderNo:   orderNo,
		UserID:    userID,
		Status:    StatusPending,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.TotalPrice = o.CalculateTotal()
	return o, nil
}

// CanTransitionTo 检查是否可以转换到目标状态
// 转换到当前状态也视为非法(重复取消、重复发货都会被拒绝)
func (o *Order) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target Status) error {
	if !target.Valid() {
		return ErrUnknownStatus
	}
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Ship 发货
func (o *Order) Ship() error {
	return o.TransitionTo(StatusShipped)
}

// Cancel 取消订单
// 只有pending订单可以取消,库存回补由调用方在同一事务中完成
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return ErrNotCancellable
	}
	return o.TransitionTo(StatusCancelled)
}

// IsPending 是否待发货
func (o *Order) IsPending() bool {
	return o.Status == StatusPending
}

// CalculateTotal 根据明细计算订单总价
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return userID != 0 && o.UserID == userID
}
