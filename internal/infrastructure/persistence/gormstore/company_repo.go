package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/company"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// companyRepository 公司仓储实现
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository 创建公司仓储
func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &companyRepository{db: db}
}

// Create 创建公司,owner_id唯一索引保证一人一家
func (r *companyRepository) Create(ctx context.Context, c *company.Company) error {
	model := &CompanyModel{
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		OwnerID:     c.OwnerID,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return company.ErrCompanyExists
		}
		return apperrors.Wrap(err, "创建公司失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *companyRepository) FindByID(ctx context.Context, id uint) (*company.Company, error) {
	return r.findOne(getDB(ctx, r.db).Where("id = ?", id))
}

func (r *companyRepository) FindByOwner(ctx context.Context, ownerID uint) (*company.Company, error) {
	return r.findOne(getDB(ctx, r.db).Where("owner_id = ?", ownerID))
}

func (r *companyRepository) findOne(query *gorm.DB) (*company.Company, error) {
	var model CompanyModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(err, "查询公司失败")
	}
	return toCompanyEntity(&model), nil
}

// Update 更新公司资料,owner_id不在更新列中
func (r *companyRepository) Update(ctx context.Context, c *company.Company) error {
	err := getDB(ctx, r.db).Model(&CompanyModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":        c.Name,
			"description": c.Description,
			"website":     c.Website,
			"updated_at":  c.UpdatedAt,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新公司失败")
	}
	return nil
}

func (r *companyRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&CompanyModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除公司失败")
	}
	if result.RowsAffected == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

func (r *companyRepository) List(ctx context.Context, page, pageSize int) ([]*company.Company, int64, error) {
	var models []CompanyModel
	var total int64

	query := getDB(ctx, r.db).Model(&CompanyModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询公司总数失败")
	}

	page, pageSize = normalizePage(page, pageSize)
	if err := query.Order("id ASC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询公司列表失败")
	}

	companies := make([]*company.Company, len(models))
	for i := range models {
		companies[i] = toCompanyEntity(&models[i])
	}
	return companies, total, nil
}

func toCompanyEntity(model *CompanyModel) *company.Company {
	return &company.Company{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Website:     model.Website,
		OwnerID:     model.OwnerID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
