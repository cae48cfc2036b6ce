package gormstore

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// cartRepository 购物车仓储实现
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// cartItemRow 条目与图书联表查询的结果
type cartItemRow struct {
	ID        uint
	CartID    uint
	BookID    uint
	Quantity  int
	BookTitle string
	BookPrice decimal.Decimal
}

// GetOrCreate 获取用户购物车,不存在则创建
// 并发首次访问时user_id唯一索引冲突,ON CONFLICT DO NOTHING后重新查询即可拿到对方创建的购物车
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uint) (*cart.Cart, error) {
	db := getDB(ctx, r.db)

	var model CartModel
	err := db.Where("user_id = ?", userID).First(&model).Error
	if isNotFound(err) {
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&CartModel{UserID: userID}).Error
		if err == nil {
			err = db.Where("user_id = ?", userID).First(&model).Error
		}
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return r.withItems(ctx, &model)
}

// LockByUser 锁定用户购物车行后再读取条目
// 先做加锁读:MySQL REPEATABLE READ下一致性快照在第一次普通读时建立,
// 加锁在前才能看到上一个结算已提交的清空结果
func (r *cartRepository) LockByUser(ctx context.Context, userID uint) (*cart.Cart, error) {
	db := getDB(ctx, r.db)

	var model CartModel
	lock := func() error {
		return db.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&model).Error
	}
	err := lock()
	if isNotFound(err) {
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&CartModel{UserID: userID}).Error
		if err == nil {
			err = lock()
		}
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "锁定用户%d的购物车失败", userID)
	}

	return r.withItems(ctx, &model)
}

func (r *cartRepository) withItems(ctx context.Context, model *CartModel) (*cart.Cart, error) {
	items, err := r.listItems(ctx, model.ID)
	if err != nil {
		return nil, err
	}

	return &cart.Cart{
		ID:        model.ID,
		UserID:    model.UserID,
		Items:     items,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// listItems 查询购物车条目(带出书名和当前价格)
// 已下架的图书不再出现在购物车里
func (r *cartRepository) listItems(ctx context.Context, cartID uint) ([]cart.Item, error) {
	var rows []cartItemRow
	err := r.itemQuery(ctx).
		Where("ci.cart_id = ?", cartID).
		Order("ci.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车条目失败")
	}

	items := make([]cart.Item, len(rows))
	for i, row := range rows {
		items[i] = toCartItem(row)
	}
	return items, nil
}

func (r *cartRepository) itemQuery(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db).Table("cart_items AS ci").
		Select("ci.id, ci.cart_id, ci.book_id, ci.quantity, b.title AS book_title, b.price AS book_price").
		Joins("JOIN books AS b ON b.id = ci.book_id AND b.deleted_at IS NULL")
}

// LockItem 锁定(cart_id, book_id)条目
func (r *cartRepository) LockItem(ctx context.Context, cartID, bookID uint) (*cart.Item, error) {
	var model CartItemModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cart_id = ? AND book_id = ?", cartID, bookID).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, cart.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "锁定购物车条目失败")
	}
	return &cart.Item{ID: model.ID, CartID: model.CartID, BookID: model.BookID, Quantity: model.Quantity}, nil
}

// FindItem 查询条目,限定在cartID内
func (r *cartRepository) FindItem(ctx context.Context, cartID, itemID uint) (*cart.Item, error) {
	var rows []cartItemRow
	err := r.itemQuery(ctx).
		Where("ci.id = ? AND ci.cart_id = ?", itemID, cartID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车条目失败")
	}
	if len(rows) == 0 {
		return nil, cart.ErrItemNotFound
	}
	item := toCartItem(rows[0])
	return &item, nil
}

// CreateItem 新增条目
func (r *cartRepository) CreateItem(ctx context.Context, item *cart.Item) error {
	model := &CartItemModel{CartID: item.CartID, BookID: item.BookID, Quantity: item.Quantity}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return cart.ErrItemDuplicate
		}
		return apperrors.Wrap(err, "新增购物车条目失败")
	}
	item.ID = model.ID
	return nil
}

// UpdateItemQuantity 更新条目数量
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, item *cart.Item) error {
	result := getDB(ctx, r.db).Model(&CartItemModel{}).
		Where("id = ? AND cart_id = ?", item.ID, item.CartID).
		Update("quantity", item.Quantity)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车条目失败")
	}
	return nil
}

// DeleteItem 删除条目
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	result := getDB(ctx, r.db).Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车条目失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Clear 清空购物车(包括已下架图书的条目)
func (r *cartRepository) Clear(ctx context.Context, cartID uint) error {
	if err := getDB(ctx, r.db).Where("cart_id = ?", cartID).Delete(&CartItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

func toCartItem(row cartItemRow) cart.Item {
	return cart.Item{
		ID:        row.ID,
		CartID:    row.CartID,
		BookID:    row.BookID,
		Quantity:  row.Quantity,
		BookTitle: row.BookTitle,
		BookPrice: row.BookPrice,
	}
}
