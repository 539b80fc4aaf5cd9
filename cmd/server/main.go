package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/export/xlsx"
	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/handler"
	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/interceptor"
	redisstore "github.com/ogurasousui/resource-allocation-admin/internal/adapters/redis"
	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/repository/postgres"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/allocation"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/dashboard"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/project"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
	"github.com/ogurasousui/resource-allocation-admin/internal/platform/config"
	pg "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
	"github.com/ogurasousui/resource-allocation-admin/internal/platform/logger"
	"github.com/ogurasousui/resource-allocation-admin/internal/platform/metrics"
	"github.com/ogurasousui/resource-allocation-admin/internal/platform/server"
)

// txRetries は直列化失敗時にユースケースのトランザクションを再実行する回数です。
const txRetries = 3

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool, pg.WithIsolation(pgx.Serializable), pg.WithRetries(txRetries))
	checks := map[string]server.HealthCheck{
		"postgres": pg.NewHealthChecker(dbPool).Check,
	}

	var revocations session.RevocationStore
	if cfg.Redis.Enabled() {
		store, err := redisstore.NewRevocationStore(ctx, cfg.Redis, zl)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		revocations = store
		checks["redis"] = store.Ping
	} else {
		zl.Info("redis is not configured; revoked sessions are kept in memory")
	}

	historyRepo := postgres.NewHistoryRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)

	historySvc := history.NewService(historyRepo, nil)
	employeeSvc := employee.NewService(employeeRepo, historySvc, nil, txManager)
	projectSvc := project.NewService(postgres.NewProjectRepository(dbPool), historySvc, nil, txManager)
	allocationSvc := allocation.NewService(
		postgres.NewAssignmentRepository(dbPool),
		employeeRepo,
		historySvc,
		nil,
		txManager,
		allocation.Options{EnforceTotalCap: cfg.Allocation.EnforceTotalCap},
	)
	requestSvc := request.NewService(postgres.NewRequestRepository(dbPool), nil, txManager)
	roleSvc := role.NewService(postgres.NewRoleRepository(dbPool), nil)
	dashboardSvc := dashboard.NewService(postgres.NewDashboardRepository(dbPool))
	sessionSvc := session.NewService(postgres.NewAccountRepository(dbPool), revocations, nil, zl, session.Options{
		Secret: []byte(cfg.Auth.JWTSecret),
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.SessionTTL,
	})
	unsubscribe := sessionSvc.OnSessionChange(func(ev session.Event) {
		zl.Info("session changed",
			zap.String("kind", string(ev.Kind)),
			zap.String("account_id", ev.Principal.AccountID),
		)
	})
	defer unsubscribe()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rpcMetrics := metrics.NewRPCMetrics(registry)

	signInLimiter := rate.NewLimiter(rate.Limit(cfg.Auth.SignInRate), cfg.Auth.SignInBurst)

	grpcServer := server.New(cfg.Server.ListenAddr, server.Services{
		Auth:       handler.NewAuthGrpcHandler(sessionSvc),
		Employee:   handler.NewEmployeeGrpcHandler(employeeSvc),
		Project:    handler.NewProjectGrpcHandler(projectSvc),
		Allocation: handler.NewAllocationGrpcHandler(allocationSvc),
		Request:    handler.NewRequestGrpcHandler(requestSvc),
		Role:       handler.NewRoleGrpcHandler(roleSvc),
		History:    handler.NewHistoryGrpcHandler(historySvc, xlsx.NewHistoryExporter(historySvc, zl)),
		Dashboard:  handler.NewDashboardGrpcHandler(dashboardSvc),
	}, grpc.ChainUnaryInterceptor(
		interceptor.Logging(zl),
		interceptor.Metrics(rpcMetrics),
		interceptor.RateLimit(signInLimiter, resourcev1.AuthService_SignIn_FullMethodName),
		interceptor.Auth(sessionSvc, resourcev1.AuthService_SignIn_FullMethodName, "/grpc.health.v1.Health/Check"),
	))

	opsServer := server.NewOpsServer(cfg.Server.OpsAddr, server.NewOpsRouter(registry, checks), zl)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- grpcServer.Run(ctx) }()
	go func() { errCh <- opsServer.Run(ctx) }()

	zl.Info("servers started",
		zap.String("grpc_addr", cfg.Server.ListenAddr),
		zap.String("ops_addr", cfg.Server.OpsAddr),
	)

	// どちらかが異常終了した場合はもう一方も止める。
	var runErr error
	for range 2 {
		if err := <-errCh; err != nil {
			runErr = errors.Join(runErr, err)
			cancel()
		}
	}
	return runErr
}
