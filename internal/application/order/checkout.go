package order

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

const tracerName = "bookshop/order"

// CheckoutUseCase 结算用例:购物车 → 订单
// 涉及:事务处理、并发控制、业务规则校验
type CheckoutUseCase struct {
	cartRepo  cart.Repository
	bookRepo  book.Repository
	orderRepo order.Repository
	txManager *gormstore.TxManager
	cache     BookCacheInvalidator
	publisher EventPublisher
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	cartRepo cart.Repository,
	bookRepo book.Repository,
	orderRepo order.Repository,
	txManager *gormstore.TxManager,
	cache BookCacheInvalidator,
	publisher EventPublisher,
) *CheckoutUseCase {
	metrics.InitMetrics()
	return &CheckoutUseCase{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
	}
}

// Execute 执行结算
// 防止超卖的完整流程(一个事务):
//  1. 锁定购物车行后读取条目,为空直接返回(同一用户重复提交时第二个请求看到的是已清空的购物车)
//  2. 按book_id升序逐行 SELECT ... FOR UPDATE 锁定图书,检查库存
//  3. 条件扣减库存(stock - q >= 0),按锁定时的价格生成明细快照
//  4. 写入订单和明细
//  5. 清空购物车
//
// 任何一步失败整个事务回滚,不会留下部分扣减的库存
func (uc *CheckoutUseCase) Execute(ctx context.Context, userID uint) (*CheckoutResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Checkout")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", int64(userID)))

	start := time.Now()
	var created *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return cart.ErrCartEmpty
		}

		lines := c.LinesByBookID()
		items := make([]order.Item, 0, len(lines))
		for _, line := range lines {
			b, err := uc.bookRepo.LockByID(txCtx, line.BookID)
			if err != nil {
				return err
			}
			if !b.HasStock(line.Quantity) {
				return book.InsufficientStock(b.Title, b.Stock)
			}
			if err := uc.bookRepo.UpdateStock(txCtx, b.ID, -line.Quantity); err != nil {
				if errors.Is(err, book.ErrInsufficientStock) {
					// 条件更新兜底:提示里用数据库当前的库存
					available := b.Stock
					if current, ferr := uc.bookRepo.FindByID(txCtx, b.ID); ferr == nil {
						available = current.Stock
					}
					return book.InsufficientStock(b.Title, available)
				}
				return err
			}

			// 使用锁定时数据库中的价格,而不是购物车展示的价格
			item, err := order.NewItem(b.ID, b.Title, line.Quantity, b.Price)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		o, err := order.NewOrder(order.GenerateOrderNo(), userID, items)
		if err != nil {
			return err
		}
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}
		if err := uc.cartRepo.Clear(txCtx, c.ID); err != nil {
			return err
		}
		created = o
		return nil
	})
	metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())
	if err != nil {
		metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": failureReason(err)})
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout failed")
		return nil, err
	}

	units := 0
	for _, item := range created.Items {
		units += item.Quantity
	}
	metrics.IncCounter(metrics.OrdersCheckedOutTotal)
	metrics.AddCounter(metrics.StockUnitsReservedTotal, float64(units))
	span.SetAttributes(attribute.Int64("order_id", int64(created.ID)), attribute.Int("lines", len(created.Items)))

	zap.L().Info("order checked out",
		zap.Uint("order_id", created.ID),
		zap.String("order_no", created.OrderNo),
		zap.Uint("user_id", userID),
		zap.String("total_price", created.TotalPrice.StringFixed(2)),
		zap.Int("lines", len(created.Items)),
		zap.String("trace_id", tracing.ExtractTraceID(ctx)),
	)

	afterCommit(ctx, uc.cache, uc.publisher, order.EventCreated, created)
	return toCheckoutResponse(created), nil
}

// failureReason 结算失败原因(指标标签)
func failureReason(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeCartEmpty:
		return "cart_empty"
	case apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	case apperrors.ErrCodeBookNotFound:
		return "book_not_found"
	}
	return "error"
}
