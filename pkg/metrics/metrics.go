// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP指标：请求数、耗时、处理中的请求数（由HTTP中间件记录）
//   - 订单业务指标：下单、下单失败（按原因）、取消、状态流转、库存预占数量
//   - 基础设施指标：熔断器状态、事件发布数、缓存命中
//
// 命名规范：
//   - Counter以 _total 结尾
//   - Histogram以单位结尾（_seconds）
//   - 标签只用有限取值的维度（method、status、reason），不要用user_id、order_id
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounter(metrics.OrdersCheckedOutTotal)
//	metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": "insufficient_stock"})
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/orders/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 订单业务指标

	// OrdersCheckedOutTotal 结算成功生成的订单数
	OrdersCheckedOutTotal prometheus.Counter

	// CheckoutFailedTotal 结算失败次数
	// 标签：reason（cart_empty | insufficient_stock | error）
	CheckoutFailedTotal *prometheus.CounterVec

	// CheckoutDuration 结算事务耗时
	CheckoutDuration prometheus.Histogram

	// OrdersCancelledTotal 取消并回补库存的订单数
	OrdersCancelledTotal prometheus.Counter

	// OrderTransitionsTotal 订单状态流转次数
	// 标签：to（shipped | cancelled）、result（success | rejected）
	OrderTransitionsTotal *prometheus.CounterVec

	// StockUnitsReservedTotal 结算时扣减的库存件数
	StockUnitsReservedTotal prometheus.Counter

	// StockUnitsRestoredTotal 取消时回补的库存件数
	StockUnitsRestoredTotal prometheus.Counter

	// 基础设施指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success | failure | rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 事件发布总数
	// 标签：routing_key、result（success | failure）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 事件消费总数
	// 标签：queue、result
	MessagesConsumedTotal *prometheus.CounterVec

	// CacheRequestsTotal 图书缓存访问
	// 标签：kind（detail | list）、result（hit | miss）
	CacheRequestsTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry（重复调用是安全的）
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	OrdersCheckedOutTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_checked_out_total",
			Help: "结算成功生成的订单数",
		},
	)

	CheckoutFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failed_total",
			Help: "结算失败次数",
		},
		[]string{"reason"},
	)

	// 结算在一个事务内锁定多本图书，桶从10ms起
	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "结算事务耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	OrdersCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_cancelled_total",
			Help: "取消并回补库存的订单数",
		},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "订单状态流转次数",
		},
		[]string{"to", "result"},
	)

	StockUnitsReservedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_units_reserved_total",
			Help: "结算扣减的库存件数",
		},
	)

	StockUnitsRestoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_units_restored_total",
			Help: "取消订单回补的库存件数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "事件发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "事件消费总数",
		},
		[]string{"queue", "result"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_requests_total",
			Help: "图书缓存访问次数",
		},
		[]string{"kind", "result"},
	)
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// AddCounter 按增量递增Counter
func AddCounter(counter prometheus.Counter, delta float64) {
	counter.Add(delta)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
