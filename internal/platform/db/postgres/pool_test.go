package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/resource-allocation-admin/internal/platform/config"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "user",
		Password:        "pass",
		Name:            "resources",
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}

	poolCfg, err := BuildPoolConfig(dbCfg)
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 {
		t.Errorf("expected MaxConns 20, got %d", poolCfg.MaxConns)
	}

	if poolCfg.MinConns != 5 {
		t.Errorf("expected MinConns 5, got %d", poolCfg.MinConns)
	}

	if poolCfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("unexpected MaxConnLifetime: %v", poolCfg.MaxConnLifetime)
	}

	if poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected MaxConnIdleTime: %v", poolCfg.MaxConnIdleTime)
	}

	if poolCfg.ConnConfig.Database != "resources" {
		t.Errorf("expected database resources, got %s", poolCfg.ConnConfig.Database)
	}
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func TestHealthChecker_Check(t *testing.T) {
	t.Parallel()

	if err := NewHealthChecker(stubPinger{}).Check(context.Background()); err != nil {
		t.Fatalf("expected healthy database, got %v", err)
	}

	down := errors.New("connection refused")
	err := NewHealthChecker(stubPinger{err: down}).Check(context.Background())
	if !errors.Is(err, down) {
		t.Fatalf("expected wrapped ping error, got %v", err)
	}
}
