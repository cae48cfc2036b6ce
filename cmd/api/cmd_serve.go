package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	grpcserver "github.com/xiebiao/bookshop/internal/interface/grpc"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// healthProbeInterval gRPC健康检查的探测周期
const healthProbeInterval = 10 * time.Second

// bookshop serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP API服务(启动时自动迁移表结构并初始化用户组)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				zap.L().Warn("关闭Tracer失败", zap.Error(err))
			}
		}()
	}

	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := gormstore.Migrate(app.DB); err != nil {
		return err
	}
	if err := gormstore.SeedGroups(ctx, app.DB); err != nil {
		return err
	}

	if cfg.GRPC.Enabled {
		health := grpcserver.NewHealthServer(map[string]grpcserver.Checker{
			"database": func(ctx context.Context) error {
				sqlDB, err := app.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error {
				return redis.Ping(ctx, app.Redis)
			},
		})
		go health.Watch(ctx, healthProbeInterval)
		go func() {
			if err := health.ListenAndServe(cfg.GRPC.Port); err != nil {
				zap.L().Error("gRPC health server stopped", zap.Error(err))
			}
		}()
		defer health.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server listening",
			zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 优雅关闭:停止接收新连接,等待进行中的请求完成
	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	zap.L().Info("server stopped")
	return nil
}
