package cart

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity 单个条目的数量上限,累加后同样受限
const MaxQuantity = 10000

// Cart 购物车(每个用户一辆,首次访问时创建)
// 购物车只记录意向,不占用库存;库存在结算时才扣减
type Cart struct {
	ID        uint
	UserID    uint
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item 购物车条目
// 同一辆购物车里每本书最多一行(cart_id, book_id唯一),重复加购累加数量
type Item struct {
	ID       uint
	CartID   uint
	BookID   uint
	Quantity int

	// 以下字段查询时从图书表带出,仅用于展示
	BookTitle string
	BookPrice decimal.Decimal
}

// ValidateQuantity 数量必须在(0, MaxQuantity]内
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

// NewItem 创建购物车条目
func NewItem(cartID, bookID uint, quantity int) (*Item, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return &Item{CartID: cartID, BookID: bookID, Quantity: quantity}, nil
}

// Add 累加数量,先比较再相加,不会溢出
func (i *Item) Add(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if quantity > MaxQuantity-i.Quantity {
		return ErrQuantityTooLarge
	}
	i.Quantity += quantity
	return nil
}

// SetQuantity 设置数量
func (i *Item) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	return nil
}

// Subtotal 小计(按当前价格,仅展示用)
func (i *Item) Subtotal() decimal.Decimal {
	return i.BookPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total 按当前价格估算的总价(结算时以锁定后的价格为准)
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// LinesByBookID 按book_id升序返回条目
// 结算时按固定顺序加锁,两个并发结算不会互相等待对方持有的行锁
func (c *Cart) LinesByBookID() []Item {
	lines := make([]Item, len(c.Items))
	copy(lines, c.Items)
	sort.Slice(lines, func(a, b int) bool {
		return lines[a].BookID < lines[b].BookID
	})
	return lines
}
