package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryOrdersUseCase 订单查询
type QueryOrdersUseCase struct {
	orderRepo order.Repository
}

// NewQueryOrdersUseCase 创建订单查询用例
func NewQueryOrdersUseCase(orderRepo order.Repository) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 列表查询参数
type ListOrdersRequest struct {
	All      bool // scope=all,仅管理员
	Status   string
	Page     int
	PageSize int
}

// Get 订单详情,本人或管理员可见
func (uc *QueryOrdersUseCase) Get(ctx context.Context, actor user.Principal, orderID uint) (*OrderResponse, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !user.IsOwnerOrAdmin(actor, o.UserID) {
		return nil, order.ErrOrderNotFound
	}
	return toOrderResponse(o), nil
}

// List 订单列表,默认只查自己的订单
func (uc *QueryOrdersUseCase) List(ctx context.Context, actor user.Principal, req ListOrdersRequest) (*ListOrdersResponse, error) {
	// UserID为0表示查询全部,匿名用户必须在这里拦住
	if actor.IsAnonymous() {
		return nil, apperrors.ErrUnauthorized
	}
	params := order.ListParams{
		UserID:   actor.UserID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.All {
		if !actor.IsAdmin() {
			return nil, apperrors.ErrForbidden
		}
		params.UserID = 0
	}
	if req.Status != "" {
		st, err := order.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		params.Status = st
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	orders, total, err := uc.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	list := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		list[i] = toOrderResponse(o)
	}
	return &ListOrdersResponse{List: list, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}
