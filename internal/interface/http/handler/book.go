package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
// 查询接口公开,写接口需要Admin或Seller组
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
	getUseCase    *appbook.GetBookUseCase
	listUseCase   *appbook.ListBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询,支持关键词(书名/作者)和排序
// @Tags         图书
// @Produce      json
// @Param        page      query int    false "页码" default(1)
// @Param        page_size query int    false "每页数量(最大100)" default(20)
// @Param        keyword   query string false "关键词"
// @Param        seller_id query int    false "卖家ID"
// @Param        sort_by   query string false "排序" Enums(price_asc, price_desc, created_at_desc, title_asc)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     q.Page,
		PageSize: q.PageSize,
		Keyword:  q.Keyword,
		SellerID: q.SellerID,
		SortBy:   q.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getUseCase.ByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBookBySlug 按Slug查询图书
// @Summary      按Slug查询图书
// @Tags         图书
// @Produce      json
// @Param        slug path string true "Slug"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/slug/{slug} [get]
func (h *BookHandler) GetBookBySlug(c *gin.Context) {
	result, err := h.getUseCase.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateBook 上架图书
// @Summary      上架图书
// @Description  卖家或管理员上架图书,卖家ID取当前用户
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "参数错误或书名已存在"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无权限"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	published, err := dto.ParseDate(req.PublishedDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), middleware.GetPrincipal(c), appbook.CreateBookRequest{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		PublishedDate: published,
		Price:         req.Price,
		Stock:         *req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ReplaceBook 全量修改图书
// @Summary      修改图书(PUT)
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在或不属于当前卖家"
// @Router       /books/{id} [put]
func (h *BookHandler) ReplaceBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	published, err := dto.ParseDate(req.PublishedDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.update(c, id, appbook.UpdateBookRequest{
		Title:              &req.Title,
		Author:             &req.Author,
		Description:        &req.Description,
		PublishedDate:      published,
		ClearPublishedDate: published == nil,
		Price:              &req.Price,
		Stock:              req.Stock,
	})
}

// PatchBook 部分修改图书
// @Summary      修改图书(PATCH)
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                  true "图书ID"
// @Param        request body dto.PatchBookRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在或不属于当前卖家"
// @Router       /books/{id} [patch]
func (h *BookHandler) PatchBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PatchBookRequest
	if !bindJSON(c, &req) {
		return
	}

	update := appbook.UpdateBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if req.PublishedDate != nil {
		published, err := dto.ParseDate(*req.PublishedDate)
		if err != nil {
			response.Error(c, err)
			return
		}
		update.PublishedDate = published
		update.ClearPublishedDate = published == nil
	}
	h.update(c, id, update)
}

func (h *BookHandler) update(c *gin.Context, id uint, req appbook.UpdateBookRequest) {
	result, err := h.updateUseCase.Execute(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 下架图书
// @Summary      下架图书
// @Tags         图书
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      204
// @Failure      404 {object} response.Response "图书不存在或不属于当前卖家"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteUseCase.Execute(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
