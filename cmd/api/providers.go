package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/messaging"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// App serve命令需要的全部对象
type App struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *goredis.Client
}

func newApp(engine *gin.Engine, db *gorm.DB, client *goredis.Client) *App {
	return &App{Engine: engine, DB: db, Redis: client}
}

// CreateAdmin createadmin命令需要的对象
type CreateAdmin struct {
	DB      *gorm.DB
	UseCase *appuser.CreateAdminUseCase
}

func newCreateAdmin(db *gorm.DB, uc *appuser.CreateAdminUseCase) *CreateAdmin {
	return &CreateAdmin{DB: db, UseCase: uc}
}

// provideDB 数据库连接,cleanup里关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := gormstore.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { closeDB(db) }, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// provideRedis Redis连接
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideUserService 用户领域服务(bcrypt使用默认cost)
func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideBookCache 目录缓存,cache.enabled=false时不缓存
func provideBookCache(cfg *config.Config, client *goredis.Client) appbook.Cache {
	if !cfg.Cache.Enabled {
		return appbook.NopCache{}
	}
	return redis.NewBookCache(client, cfg.Cache.ListTTL, cfg.Cache.DetailTTL)
}

// provideCacheInvalidator 订单写操作只需要按ID失效图书缓存
func provideCacheInvalidator(cache appbook.Cache) apporder.BookCacheInvalidator {
	return cache
}

// provideEventPublisher 订单事件发布者
// mq.enabled=false或Broker连接失败时退化为只写日志,不阻止服务启动
func provideEventPublisher(cfg *config.Config) (apporder.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return messaging.LogPublisher{}, func() {}
	}
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		zap.L().Warn("RabbitMQ不可用,订单事件只写日志", zap.Error(err))
		return messaging.LogPublisher{}, func() {}
	}
	return messaging.NewOrderEventPublisher(pub), func() { _ = pub.Close() }
}
