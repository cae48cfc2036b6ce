//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcompany "github.com/xiebiao/bookshop/internal/application/company"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖:数据库、Redis、缓存、事件发布
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideBookCache,
	provideCacheInvalidator,
	provideEventPublisher,
	redis.NewSessionStore,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	gormstore.NewUserRepository,
	gormstore.NewBookRepository,
	gormstore.NewCartRepository,
	gormstore.NewOrderRepository,
	gormstore.NewCompanyRepository,
	gormstore.NewTxManager,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewProfileUseCase,
	appuser.NewRefreshUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appcart.NewCartUseCase,
	apporder.NewCheckoutUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewQueryOrdersUseCase,
	appcompany.NewCompanyUseCase,
)

// interfaceSet HTTP接口层
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewCompanyHandler,
	router.NewHandlers,
	router.New,
)

// InitializeApp 组装serve命令的全部依赖,cleanup按相反顺序释放连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}

// InitializeCreateAdmin createadmin命令只需要数据库和用户服务
func InitializeCreateAdmin(cfg *config.Config) (*CreateAdmin, func(), error) {
	wire.Build(
		provideDB,
		gormstore.NewUserRepository,
		provideUserService,
		appuser.NewCreateAdminUseCase,
		newCreateAdmin,
	)
	return nil, nil, nil
}
