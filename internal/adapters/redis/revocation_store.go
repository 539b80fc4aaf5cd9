// Package redis はサインアウト済みトークンの失効リストを Redis に保持します。
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ogurasousui/resource-allocation-admin/internal/platform/config"
)

const revokedPrefix = "token:revoked:"

// RevocationStore は session.RevocationStore の Redis 実装です。
type RevocationStore struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewRevocationStore は Redis に接続し、Ping で疎通を確認します。
func NewRevocationStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RevocationStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &RevocationStore{rdb: rdb, logger: logger}, nil
}

// Revoke はトークン ID を残り有効期間だけ失効扱いにします。期限切れのトークンは記録しません。
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked はトークン ID が失効リストにあるかを返します。
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping は Redis の疎通を確認します。ヘルスチェックから利用します。
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close は接続を閉じます。
func (s *RevocationStore) Close() error {
	return s.rdb.Close()
}
