package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/ogurasousui/resource-allocation-admin/internal/platform/config"
)

func newTestStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	store, err := NewRevocationStore(context.Background(), config.RedisConfig{Addr: srv.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRevocationStore returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func TestRevocationStore_RevokeAndExpire(t *testing.T) {
	t.Parallel()

	store, srv := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected revoked token, got %v err=%v", revoked, err)
	}
	if ttl := srv.TTL(revokedPrefix + "jti-1"); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %s", ttl)
	}

	srv.FastForward(2 * time.Minute)

	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("expected expired revocation, got %v err=%v", revoked, err)
	}
}

func TestRevocationStore_SkipsExpiredTokens(t *testing.T) {
	t.Parallel()

	store, srv := newTestStore(t)

	if err := store.Revoke(context.Background(), "jti-2", 0); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if srv.Exists(revokedPrefix + "jti-2") {
		t.Fatalf("expected no key for expired token")
	}
}

func TestNewRevocationStore_Unreachable(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	if _, err := NewRevocationStore(context.Background(), config.RedisConfig{Addr: addr}, nil); err == nil {
		t.Fatalf("expected ping error")
	}
}
