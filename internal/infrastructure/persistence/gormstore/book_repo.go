package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如Slug重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrSlugDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindBySlug 根据Slug查找图书
func (r *bookRepository) FindBySlug(ctx context.Context, slug string) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).Where("slug = ?", slug).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书信息
// 库存列不在更新范围内,库存走SetStock/UpdateStock
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Model(&BookModel{ID: b.ID}).
		Select("title", "slug", "author", "description", "published_date", "price", "updated_at").
		Updates(toBookModel(b))
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrSlugDuplicate
		}
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	return nil
}

// SetStock 直接设置库存(卖家补货/盘点),调用方需持有行锁
func (r *bookRepository) SetStock(ctx context.Context, id uint, stock int) error {
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Update("stock", stock).Error
	if err != nil {
		return apperrors.Wrapf(err, "更新图书%d库存失败", id)
	}
	return nil
}

// Delete 删除图书(软删除)
// GORM的软删除:DELETE会变成UPDATE deleted_at,后续查询自动过滤
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookModel{})

	// 关键词搜索(标题、作者)
	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", like, like)
	}
	if params.SellerID != 0 {
		query = query.Where("seller_id = ?", params.SellerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 排序(id作为第二排序键,保证分页稳定)
	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC").Order("id ASC")
	case "price_desc":
		query = query.Order("price DESC").Order("id DESC")
	case "title_asc":
		query = query.Order("title ASC").Order("id ASC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	page, pageSize := normalizePage(params.Page, params.PageSize)
	if err := query.Limit(pageSize).Offset((page - 1) * pageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// TitleExists 书名是否已被占用(不区分大小写,软删除的图书不计入)
func (r *bookRepository) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	query := getDB(ctx, r.db).Model(&BookModel{}).Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(title)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询书名失败")
	}
	return count > 0, nil
}

// SlugsWithPrefix 查询base及base-N形式的Slug
// Slug中的"_"在LIKE里会匹配任意字符,多查出的Slug只会让UniqueSlug多跳过几个候选,不影响正确性
// 包含软删除的图书:唯一索引不区分是否删除
func (r *bookRepository) SlugsWithPrefix(ctx context.Context, base string, excludeID uint) ([]string, error) {
	var slugs []string
	query := getDB(ctx, r.db).Unscoped().Model(&BookModel{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Pluck("slug", &slugs).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询Slug失败")
	}
	return slugs, nil
}

// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
// 必须使用getDB(ctx)从context获取事务DB,锁在事务提交或回滚时释放
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrapf(err, "锁定图书%d失败", id)
	}
	return toBookEntity(&model), nil
}

// UpdateStock 原子更新库存
// UPDATE books SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
// Unscoped:取消订单时图书可能已下架,库存仍要回补
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Unscoped().Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta). // 防止库存为负
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return apperrors.Wrapf(result.Error, "更新图书%d库存失败", id)
	}

	if result.RowsAffected == 0 {
		// 可能是图书不存在,或者库存不足,再查一次确定原因
		var model BookModel
		if err := db.Unscoped().First(&model, id).Error; err != nil {
			if isNotFound(err) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
		return book.ErrInsufficientStock
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Slug:          b.Slug,
		Author:        b.Author,
		Description:   b.Description,
		PublishedDate: b.PublishedDate,
		Price:         b.Price,
		Stock:         b.Stock,
		SellerID:      b.SellerID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Slug:          model.Slug,
		Author:        model.Author,
		Description:   model.Description,
		PublishedDate: model.PublishedDate,
		Price:         model.Price,
		Stock:         model.Stock,
		SellerID:      model.SellerID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
