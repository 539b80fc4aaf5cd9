package main

import (
	"bytes"
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/export/xlsx"
	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/repository/postgres"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
	"github.com/ogurasousui/resource-allocation-admin/internal/platform/config"
	pg "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
	"github.com/ogurasousui/resource-allocation-admin/internal/platform/logger"
)

const txRetries = 3

type accountCreator interface {
	CreateAccount(ctx context.Context, in session.CreateAccountInput) (*session.Account, error)
}

type historyExporter interface {
	Export(ctx context.Context, in xlsx.ExportInput) (*bytes.Buffer, string, error)
}

// deps は管理コマンドが利用するユースケースです。
type deps struct {
	accounts accountCreator
	requests request.UseCase
	exporter historyExporter
}

type depsLoader func(ctx context.Context, configPath string) (*deps, func(), error)

func openDeps(ctx context.Context, configPath string) (*deps, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	txManager := pg.NewTransactionManager(dbPool, pg.WithIsolation(pgx.Serializable), pg.WithRetries(txRetries))
	historySvc := history.NewService(postgres.NewHistoryRepository(dbPool), nil)

	d := &deps{
		accounts: session.NewService(postgres.NewAccountRepository(dbPool), nil, nil, zl, session.Options{
			Secret: []byte(cfg.Auth.JWTSecret),
			Issuer: cfg.Auth.Issuer,
			TTL:    cfg.Auth.SessionTTL,
		}),
		requests: request.NewService(postgres.NewRequestRepository(dbPool), nil, txManager),
		exporter: xlsx.NewHistoryExporter(historySvc, zl),
	}

	cleanup := func() {
		dbPool.Close()
		_ = zl.Sync()
	}
	return d, cleanup, nil
}
