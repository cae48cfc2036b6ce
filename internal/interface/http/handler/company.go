package handler

import (
	"github.com/gin-gonic/gin"

	appcompany "github.com/xiebiao/bookshop/internal/application/company"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CompanyHandler 公司HTTP处理器
type CompanyHandler struct {
	companyUseCase *appcompany.CompanyUseCase
}

// NewCompanyHandler 创建公司处理器
func NewCompanyHandler(companyUseCase *appcompany.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{companyUseCase: companyUseCase}
}

// CreateCompany 创建公司
// @Summary      创建公司
// @Description  仅卖家账号,每人一家
// @Tags         公司
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CompanyRequest true "公司资料"
// @Success      201 {object} response.Response{data=appcompany.CompanyResponse}
// @Failure      400 {object} response.Response "已拥有公司"
// @Failure      403 {object} response.Response "不是卖家"
// @Router       /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dto.CompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.companyUseCase.Create(c.Request.Context(), middleware.GetPrincipal(c), toCompanyRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListCompanies 公司列表(仅管理员)
// @Summary      公司列表
// @Tags         公司
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      403 {object} response.Response "非管理员"
// @Router       /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.companyUseCase.List(c.Request.Context(), middleware.GetPrincipal(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// MyCompany 当前用户的公司
// @Summary      我的公司
// @Tags         公司
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcompany.CompanyResponse}
// @Failure      404 {object} response.Response "没有公司"
// @Router       /companies/me [get]
func (h *CompanyHandler) MyCompany(c *gin.Context) {
	result, err := h.companyUseCase.Mine(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetCompany 公司详情
// @Summary      公司详情
// @Tags         公司
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "公司ID"
// @Success      200 {object} response.Response{data=appcompany.CompanyResponse}
// @Failure      404 {object} response.Response "公司不存在"
// @Router       /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.companyUseCase.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateCompany 修改公司资料
// @Summary      修改公司资料
// @Tags         公司
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                true "公司ID"
// @Param        request body dto.CompanyRequest true "公司资料"
// @Success      200 {object} response.Response{data=appcompany.CompanyResponse}
// @Failure      404 {object} response.Response "公司不存在"
// @Router       /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.companyUseCase.Update(c.Request.Context(), middleware.GetPrincipal(c), id, toCompanyRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteCompany 删除公司
// @Summary      删除公司
// @Tags         公司
// @Security     BearerAuth
// @Param        id path int true "公司ID"
// @Success      204
// @Failure      404 {object} response.Response "公司不存在"
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.companyUseCase.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func toCompanyRequest(req dto.CompanyRequest) appcompany.CompanyRequest {
	return appcompany.CompanyRequest{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
	}
}
