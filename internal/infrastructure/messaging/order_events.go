// Package messaging 订单事件的发布与消费(RabbitMQ)
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// publishTimeout 单次发布的超时时间,Broker卡住时不拖慢请求
const publishTimeout = 3 * time.Second

// MessagePublisher 底层消息发布接口(*mq.Publisher实现)
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderEventPublisher 订单事件发布者
// 发布在事务提交之后进行,失败只记录日志和指标,不影响已提交的订单。
// Broker不可用时熔断器快速失败,避免每个请求都等待网络超时
type OrderEventPublisher struct {
	pub     MessagePublisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewOrderEventPublisher 创建订单事件发布者
func NewOrderEventPublisher(pub MessagePublisher) *OrderEventPublisher {
	metrics.InitMetrics()

	breaker := circuitbreaker.NewCircuitBreaker("order-events", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: tripOnFailures,
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		zap.L().Warn("circuit breaker state changed",
			zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": breaker.Name()}, float64(circuitbreaker.StateClosed))

	return &OrderEventPublisher{pub: pub, breaker: breaker}
}

// tripOnFailures 连续失败5次,或统计周期内至少10次请求且失败过半时熔断
// Broker时好时坏时连续失败计数会被成功打断,失败率兜住这种情况
func tripOnFailures(counts circuitbreaker.Counts) bool {
	return circuitbreaker.DefaultReadyToTrip(counts) ||
		(counts.Requests >= 10 && counts.FailureRate() >= 0.5)
}

// PublishOrderEvent 发布订单事件,routing key即事件类型
func (p *OrderEventPublisher) PublishOrderEvent(ctx context.Context, evt order.Event) error {
	err := p.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return p.pub.Publish(ctx, string(evt.Type), evt)
	})

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": p.breaker.Name(), "result": result})
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"routing_key": string(evt.Type), "result": result})
	return err
}

// LogPublisher MQ未启用时使用,只写日志
type LogPublisher struct{}

func (LogPublisher) PublishOrderEvent(_ context.Context, evt order.Event) error {
	zap.L().Debug("order event (mq disabled)",
		zap.String("type", string(evt.Type)), zap.Uint("order_id", evt.OrderID))
	return nil
}

// OrderEventHandler 消费订单事件
// 目前只做审计日志,解析失败的消息直接确认(重新入队也无法处理)
type OrderEventHandler struct {
	queue string
}

// NewOrderEventHandler 创建事件处理器,queue用于指标标签
func NewOrderEventHandler(queue string) *OrderEventHandler {
	metrics.InitMetrics()
	return &OrderEventHandler{queue: queue}
}

// Handle 处理一条消息,签名与mq.Consumer.Consume的handler一致
func (h *OrderEventHandler) Handle(_ context.Context, d mq.Delivery) error {
	var evt order.Event
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		zap.L().Warn("丢弃无法解析的订单事件", zap.String("routing_key", d.RoutingKey), zap.Error(err))
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": h.queue, "result": "dropped"})
		return nil
	}

	zap.L().Info("order event received",
		zap.String("type", string(evt.Type)),
		zap.Uint("order_id", evt.OrderID),
		zap.String("order_no", evt.OrderNo),
		zap.Uint("user_id", evt.UserID),
		zap.String("status", string(evt.Status)),
		zap.String("total_price", evt.TotalPrice.StringFixed(2)),
		zap.Int("items", len(evt.Items)),
	)
	metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": h.queue, "result": "success"})
	return nil
}
