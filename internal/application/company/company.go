package company

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/company"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CompanyUseCase 公司资料用例
// 1. 只有卖家账号可以创建公司,一人一家
// 2. 本人或管理员可以查看、修改、删除,其他人视为不存在
// 3. 全部公司列表仅管理员可见
type CompanyUseCase struct {
	repo     company.Repository
	userRepo user.Repository
}

// NewCompanyUseCase 创建公司用例
func NewCompanyUseCase(repo company.Repository, userRepo user.Repository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, userRepo: userRepo}
}

// CompanyRequest 创建/修改请求
type CompanyRequest struct {
	Name        string
	Description string
	Website     string
}

// CompanyResponse 公司响应
type CompanyResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	OwnerID     uint   `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ListCompaniesResponse 公司列表
type ListCompaniesResponse struct {
	List     []*CompanyResponse `json:"list"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// Create 创建公司,所有者为当前用户
// 账号类型以数据库为准,不信任Token中的角色
func (uc *CompanyUseCase) Create(ctx context.Context, actor user.Principal, req CompanyRequest) (*CompanyResponse, error) {
	if actor.IsAnonymous() {
		return nil, apperrors.ErrUnauthorized
	}
	u, err := uc.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if u.Role != user.RoleSeller {
		return nil, company.ErrSellerRequired
	}

	c, err := company.NewCompany(actor.UserID, req.Name, req.Description, req.Website)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	zap.L().Info("company created", zap.Uint("company_id", c.ID), zap.Uint("owner_id", c.OwnerID))
	return toCompanyResponse(c), nil
}

// Get 公司详情
func (uc *CompanyUseCase) Get(ctx context.Context, actor user.Principal, id uint) (*CompanyResponse, error) {
	c, err := uc.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// Mine 当前用户的公司
func (uc *CompanyUseCase) Mine(ctx context.Context, actor user.Principal) (*CompanyResponse, error) {
	c, err := uc.repo.FindByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// Update 修改公司资料,所有者不可修改
func (uc *CompanyUseCase) Update(ctx context.Context, actor user.Principal, id uint, req CompanyRequest) (*CompanyResponse, error) {
	c, err := uc.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Description, req.Website); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// Delete 删除公司
func (uc *CompanyUseCase) Delete(ctx context.Context, actor user.Principal, id uint) error {
	if _, err := uc.find(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List 全部公司(仅管理员)
func (uc *CompanyUseCase) List(ctx context.Context, actor user.Principal, page, pageSize int) (*ListCompaniesResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	companies, total, err := uc.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]*CompanyResponse, len(companies))
	for i, c := range companies {
		list[i] = toCompanyResponse(c)
	}
	return &ListCompaniesResponse{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}

func (uc *CompanyUseCase) find(ctx context.Context, actor user.Principal, id uint) (*company.Company, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsOwnerOrAdmin(actor, c.OwnerID) {
		return nil, company.ErrCompanyNotFound
	}
	return c, nil
}

func toCompanyResponse(c *company.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		OwnerID:     c.OwnerID,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}
