package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	checkoutUseCase *apporder.CheckoutUseCase
	cancelUseCase   *apporder.CancelOrderUseCase
	statusUseCase   *apporder.UpdateStatusUseCase
	queryUseCase    *apporder.QueryOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	checkoutUseCase *apporder.CheckoutUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
	statusUseCase *apporder.UpdateStatusUseCase,
	queryUseCase *apporder.QueryOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		checkoutUseCase: checkoutUseCase,
		cancelUseCase:   cancelUseCase,
		statusUseCase:   statusUseCase,
		queryUseCase:    queryUseCase,
	}
}

// Checkout 结算
// @Summary      结算购物车
// @Description  把购物车全部条目转为订单:逐行锁定图书、扣减库存、清空购物车,整体在一个事务内完成
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} response.Response{data=apporder.CheckoutResponse} "下单成功"
// @Failure      400 {object} response.Response "购物车为空或库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Router       /cart/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	result, err := h.checkoutUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  默认只返回自己的订单,管理员可以传scope=all
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Param        status    query string false "状态" Enums(pending, shipped, cancelled)
// @Param        scope     query string false "范围" Enums(mine, all)
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      403 {object} response.Response "非管理员查询全部"
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q dto.ListOrdersQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.queryUseCase.List(c.Request.Context(), middleware.GetPrincipal(c), apporder.ListOrdersRequest{
		All:      q.Scope == "all",
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.queryUseCase.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  只有pending订单可以取消,取消后回补库存
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "Order cancelled and stock restored."
// @Failure      400 {object} response.Response "订单不是pending状态"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.cancelUseCase.Execute(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Detail(c, apporder.CancelledDetail)
}

// UpdateStatus 修改订单状态
// @Summary      修改订单状态
// @Description  shipped仅管理员;cancelled走取消流程并回补库存
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                          true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      400 {object} response.Response "非法的状态转换"
// @Failure      403 {object} response.Response "非管理员发货"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.statusUseCase.Execute(c.Request.Context(), middleware.GetPrincipal(c), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
