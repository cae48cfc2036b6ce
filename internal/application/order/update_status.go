package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// UpdateStatusUseCase 修改订单状态
//
//	pending → shipped    仅管理员
//	pending → cancelled  本人或管理员,走取消流程(回补库存)
//	其他                 Invalid status transition.
type UpdateStatusUseCase struct {
	orderRepo order.Repository
	txManager *gormstore.TxManager
	cancel    *CancelOrderUseCase
	cache     BookCacheInvalidator
	publisher EventPublisher
}

// NewUpdateStatusUseCase 创建状态修改用例
func NewUpdateStatusUseCase(
	orderRepo order.Repository,
	txManager *gormstore.TxManager,
	cancel *CancelOrderUseCase,
	cache BookCacheInvalidator,
	publisher EventPublisher,
) *UpdateStatusUseCase {
	metrics.InitMetrics()
	return &UpdateStatusUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
		cancel:    cancel,
		cache:     cache,
		publisher: publisher,
	}
}

// Execute 执行状态修改
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, actor user.Principal, orderID uint, status string) (*OrderResponse, error) {
	target, err := order.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	switch target {
	case order.StatusCancelled:
		return uc.cancel.Execute(ctx, actor, orderID)
	case order.StatusShipped:
		// 权限在查询订单之前判断,非管理员拿不到订单是否存在的信息
		if !actor.IsAdmin() {
			metrics.IncCounterVec(metrics.OrderTransitionsTotal, map[string]string{"to": string(target), "result": "rejected"})
			return nil, apperrors.ErrForbidden
		}
	}

	var updated *order.Order
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.LockByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !user.IsOwnerOrAdmin(actor, o.UserID) {
			return order.ErrOrderNotFound
		}
		if err := o.TransitionTo(target); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(txCtx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		metrics.IncCounterVec(metrics.OrderTransitionsTotal, map[string]string{"to": string(target), "result": "rejected"})
		return nil, err
	}
	metrics.IncCounterVec(metrics.OrderTransitionsTotal, map[string]string{"to": string(target), "result": "success"})

	zap.L().Info("order status changed",
		zap.Uint("order_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.Uint("operator", actor.UserID),
	)

	if evt, ok := order.EventTypeFor(updated.Status); ok {
		afterCommit(ctx, uc.cache, uc.publisher, evt, updated)
	}
	return toOrderResponse(updated), nil
}
