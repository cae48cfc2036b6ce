package gormstore

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 设计说明：
// 1. 这里是infrastructure层的数据模型，包含GORM tag
// 2. domain层的实体不依赖GORM，Repository负责两者之间的转换
// 3. 金额统一使用decimal.Decimal,列类型DECIMAL(10,2)

// RoleModel 用户组(Buyer/Seller/Admin),启动时幂等写入
type RoleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:50;not null;comment:用户组名称"`
}

func (RoleModel) TableName() string {
	return "roles"
}

// UserModel GORM用户模型
type UserModel struct {
	ID          uint           `gorm:"primaryKey"`
	Email       string         `gorm:"uniqueIndex;size:254;not null;comment:邮箱(登录标识)"`
	Password    string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	FirstName   string         `gorm:"size:50;not null;comment:名"`
	LastName    string         `gorm:"size:50;not null;comment:姓"`
	Role        string         `gorm:"size:10;not null;default:buyer;comment:账号类型buyer/seller/admin"`
	CompanyName string         `gorm:"size:255;comment:公司名称(卖家必填)"`
	IsSuperuser bool           `gorm:"not null;default:false"`
	Groups      []RoleModel    `gorm:"many2many:user_groups;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt   time.Time      `gorm:"comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 1. Slug唯一索引,软删除的图书仍占用Slug(生成Slug时要把它们算进去)
// 2. Title/Author建搜索索引,Price/CreatedAt建排序索引
type BookModel struct {
	ID            uint            `gorm:"primaryKey"`
	Title         string          `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Slug          string          `gorm:"uniqueIndex;size:255;not null;comment:URL标识"`
	Author        string          `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Description   string          `gorm:"type:text;comment:图书描述"`
	PublishedDate *time.Time      `gorm:"type:date;comment:出版日期"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);index:idx_price;not null;comment:价格"`
	Stock         int             `gorm:"not null;default:0;comment:库存数量"`
	SellerID      uint            `gorm:"index;not null;comment:卖家用户ID"`
	CreatedAt     time.Time       `gorm:"index:idx_created;comment:创建时间"`
	UpdatedAt     time.Time       `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt  `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string {
	return "books"
}

// CartModel 购物车(每个用户一辆)
type CartModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null;comment:用户ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel 购物车条目,(cart_id, book_id)唯一
type CartItemModel struct {
	ID        uint      `gorm:"primaryKey"`
	CartID    uint      `gorm:"uniqueIndex:uk_cart_book;not null;comment:购物车ID"`
	BookID    uint      `gorm:"uniqueIndex:uk_cart_book;not null;comment:图书ID"`
	Quantity  int       `gorm:"not null;comment:数量"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 1. 与OrderItemModel是一对多关系
// 2. Status存字符串(pending/shipped/cancelled)
type OrderModel struct {
	ID         uint             `gorm:"primaryKey"`
	OrderNo    string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID     uint             `gorm:"index;not null;comment:买家用户ID"`
	Status     string           `gorm:"index;size:20;not null;default:pending;comment:订单状态"`
	TotalPrice decimal.Decimal  `gorm:"type:decimal(10,2);not null;comment:订单总价"`
	Items      []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型(下单时的快照,写入后不再修改)
type OrderItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"index;not null;comment:订单ID"`
	BookID    uint            `gorm:"index;not null;comment:图书ID"`
	BookTitle string          `gorm:"size:200;not null;comment:下单时书名"`
	Quantity  int             `gorm:"not null;comment:购买数量"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:下单时单价"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// CompanyModel 卖家公司,owner_id唯一(一人一家)
type CompanyModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:255;not null;comment:公司名称"`
	Description string    `gorm:"type:text;comment:公司简介"`
	Website     string    `gorm:"size:200;comment:官网"`
	OwnerID     uint      `gorm:"uniqueIndex;not null;comment:所有者用户ID"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

func (CompanyModel) TableName() string {
	return "companies"
}
