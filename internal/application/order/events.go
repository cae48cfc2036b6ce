package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// EventPublisher 订单事件发布(messaging.OrderEventPublisher或LogPublisher)
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt order.Event) error
}

// BookCacheInvalidator 库存变化后删除图书缓存
type BookCacheInvalidator interface {
	InvalidateBooks(ctx context.Context, ids ...uint) error
}

// afterCommit 事务提交后的副作用:删缓存、发事件
// 两者失败都只记录日志,不影响已提交的结果
func afterCommit(ctx context.Context, cache BookCacheInvalidator, publisher EventPublisher, t order.EventType, o *order.Order) {
	ids := make([]uint, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.BookID
	}
	if len(ids) > 0 {
		if err := cache.InvalidateBooks(ctx, ids...); err != nil {
			zap.L().Warn("删除图书缓存失败", zap.Uint("order_id", o.ID), zap.Error(err))
		}
	}

	if err := publisher.PublishOrderEvent(ctx, order.NewEvent(t, o)); err != nil {
		zap.L().Warn("发布订单事件失败",
			zap.String("event", string(t)),
			zap.Uint("order_id", o.ID),
			zap.Error(err),
		)
	}
}
