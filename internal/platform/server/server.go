package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
)

// Services は gRPC サーバーへ登録するサービス実装の一式です。nil のサービスは登録しません。
type Services struct {
	Auth       resourcev1.AuthServiceServer
	Employee   resourcev1.EmployeeServiceServer
	Project    resourcev1.ProjectServiceServer
	Allocation resourcev1.AllocationServiceServer
	Request    resourcev1.RequestServiceServer
	Role       resourcev1.RoleServiceServer
	History    resourcev1.HistoryServiceServer
	Dashboard  resourcev1.DashboardServiceServer
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func New(listenAddr string, svcs Services, opts ...grpc.ServerOption) *Server {
	srv := grpc.NewServer(opts...)
	register(srv, svcs)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
	}
}

func register(srv grpc.ServiceRegistrar, svcs Services) {
	if svcs.Auth != nil {
		resourcev1.RegisterAuthServiceServer(srv, svcs.Auth)
	}
	if svcs.Employee != nil {
		resourcev1.RegisterEmployeeServiceServer(srv, svcs.Employee)
	}
	if svcs.Project != nil {
		resourcev1.RegisterProjectServiceServer(srv, svcs.Project)
	}
	if svcs.Allocation != nil {
		resourcev1.RegisterAllocationServiceServer(srv, svcs.Allocation)
	}
	if svcs.Request != nil {
		resourcev1.RegisterRequestServiceServer(srv, svcs.Request)
	}
	if svcs.Role != nil {
		resourcev1.RegisterRoleServiceServer(srv, svcs.Role)
	}
	if svcs.History != nil {
		resourcev1.RegisterHistoryServiceServer(srv, svcs.History)
	}
	if svcs.Dashboard != nil {
		resourcev1.RegisterDashboardServiceServer(srv, svcs.Dashboard)
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
