// Package grpc 对外暴露标准gRPC健康检查服务(grpc.health.v1),供负载均衡和k8s探针使用
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查里的服务名,空字符串代表整体状态
const ServiceName = "bookshop.api"

// Checker 依赖探测(数据库、Redis),返回nil表示可用
type Checker func(ctx context.Context) error

// HealthServer gRPC健康检查服务
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	checks map[string]Checker
}

// NewHealthServer 创建健康检查服务,初始状态为NOT_SERVING,首次探测通过后才变为SERVING
func NewHealthServer(checks map[string]Checker) *HealthServer {
	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)

	// 注册反射服务（用于grpcurl调试）
	reflection.Register(server)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{server: server, health: hs, checks: checks}
}

// Serve 在listener上提供服务,阻塞直到Stop
func (s *HealthServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// ListenAndServe 监听端口并提供服务
func (s *HealthServer) ListenAndServe(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("监听gRPC端口失败: %w", err)
	}
	zap.L().Info("gRPC health server listening", zap.Int("port", port))
	return s.Serve(lis)
}

// Probe 执行一次全部探测并更新状态
func (s *HealthServer) Probe(ctx context.Context) bool {
	healthy := true
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			zap.L().Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			healthy = false
		}
	}

	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return healthy
}

// Watch 周期性探测,ctx取消后返回
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	s.Probe(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval/2)
			s.Probe(probeCtx)
			cancel()
		}
	}
}

// Stop 标记为NOT_SERVING并优雅关闭
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
