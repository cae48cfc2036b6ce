// Package router 组装gin引擎:全局中间件、健康检查、监控、文档和/api/v1路由
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookshop/docs" // swagger文档注册
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/response"
)

// slowRequestThreshold 超过该耗时的请求记warn日志
const slowRequestThreshold = 500 * time.Millisecond

// Handlers 所有HTTP处理器
type Handlers struct {
	User    *handler.UserHandler
	Book    *handler.BookHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Company *handler.CompanyHandler
}

// NewHandlers 供wire注入
func NewHandlers(
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	companyHandler *handler.CompanyHandler,
) *Handlers {
	return &Handlers{
		User:    userHandler,
		Book:    bookHandler,
		Cart:    cartHandler,
		Order:   orderHandler,
		Company: companyHandler,
	}
}

// New 创建并配置Gin引擎
// 中间件顺序:RequestID → 访问日志 → Recovery → Tracing → Metrics,
// Recovery在日志之后,panic转成的500也会被记录
func New(cfg *config.Config, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
	metrics.InitMetrics()
	dto.RegisterValidators()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(slowRequestThreshold),
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Metrics(),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != "release" {
		// 访问 /swagger/index.html 查看API文档
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()
	catalogWriter := middleware.RequireGroup(user.GroupAdmin, user.GroupSeller)

	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/token/refresh", h.User.RefreshToken)
			users.POST("/logout", requireAuth, h.User.Logout)
			users.GET("/me", requireAuth, h.User.Me)
		}

		// 图书模块:查询公开,写操作需要Admin或Seller组
		books := v1.Group("/books")
		{
			public := books.Group("", middleware.CacheControl(cfg.Cache.HTTPMaxAge))
			public.GET("", h.Book.ListBooks)
			public.GET("/:id", h.Book.GetBook)
			public.GET("/slug/:slug", h.Book.GetBookBySlug)

			books.POST("", requireAuth, catalogWriter, h.Book.CreateBook)
			books.PUT("/:id", requireAuth, catalogWriter, h.Book.ReplaceBook)
			books.PATCH("/:id", requireAuth, catalogWriter, h.Book.PatchBook)
			books.DELETE("/:id", requireAuth, catalogWriter, h.Book.DeleteBook)
		}

		// 购物车模块
		cart := v1.Group("/cart", requireAuth)
		{
			cart.GET("", h.Cart.GetCart)
			cart.POST("/items", h.Cart.AddItem)
			cart.GET("/items/:id", h.Cart.GetItem)
			cart.PATCH("/items/:id", h.Cart.UpdateItem)
			cart.PUT("/items/:id", h.Cart.UpdateItem)
			cart.DELETE("/items/:id", h.Cart.DeleteItem)
			cart.POST("/checkout", h.Order.Checkout)
		}

		// 订单模块
		orders := v1.Group("/orders", requireAuth)
		{
			orders.POST("", h.Order.Checkout)
			orders.GET("", h.Order.ListOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.POST("/:id/cancel", h.Order.CancelOrder)
			orders.PATCH("/:id/status", h.Order.UpdateStatus)
			orders.PUT("/:id/status", h.Order.UpdateStatus)
		}

		// 公司模块
		companies := v1.Group("/companies", requireAuth)
		{
			companies.POST("", h.Company.CreateCompany)
			companies.GET("", h.Company.ListCompanies)
			companies.GET("/me", h.Company.MyCompany)
			companies.GET("/:id", h.Company.GetCompany)
			companies.PUT("/:id", h.Company.UpdateCompany)
			companies.DELETE("/:id", h.Company.DeleteCompany)
		}
	}

	return r
}
