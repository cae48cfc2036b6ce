package order

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// CancelledDetail 取消成功的提示语
const CancelledDetail = "Order cancelled and stock restored."

// CancelOrderUseCase 取消订单并回补库存
// 取消接口和状态接口(status=cancelled)共用这一流程
type CancelOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager *gormstore.TxManager
	cache     BookCacheInvalidator
	publisher EventPublisher
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager *gormstore.TxManager,
	cache BookCacheInvalidator,
	publisher EventPublisher,
) *CancelOrderUseCase {
	metrics.InitMetrics()
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
	}
}

// Execute 执行取消
// 1. 锁定订单行:并发取消同一订单时串行执行,后到的请求看到cancelled状态后被拒绝
// 2. 非本人且非管理员视为订单不存在
// 3. 只有pending订单可以取消
// 4. 按明细逐行回补库存(已下架的图书也回补)
func (uc *CancelOrderUseCase) Execute(ctx context.Context, actor user.Principal, orderID uint) (*OrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CancelOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order_id", int64(orderID)))

	var cancelled *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.LockByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !user.IsOwnerOrAdmin(actor, o.UserID) {
			return order.ErrOrderNotFound
		}
		if err := o.Cancel(); err != nil {
			return err
		}

		for _, item := range o.Items {
			if err := uc.bookRepo.UpdateStock(txCtx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}
		if err := uc.orderRepo.UpdateStatus(txCtx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		metrics.IncCounterVec(metrics.OrderTransitionsTotal, map[string]string{"to": string(order.StatusCancelled), "result": "rejected"})
		span.RecordError(err)
		return nil, err
	}

	units := 0
	for _, item := range cancelled.Items {
		units += item.Quantity
	}
	metrics.IncCounter(metrics.OrdersCancelledTotal)
	metrics.AddCounter(metrics.StockUnitsRestoredTotal, float64(units))
	metrics.IncCounterVec(metrics.OrderTransitionsTotal, map[string]string{"to": string(order.StatusCancelled), "result": "success"})

	zap.L().Info("order cancelled",
		zap.Uint("order_id", cancelled.ID),
		zap.Uint("operator", actor.UserID),
		zap.Int("units_restored", units),
	)

	afterCommit(ctx, uc.cache, uc.publisher, order.EventCancelled, cancelled)
	return toOrderResponse(cancelled), nil
}
