package session

import (
	"context"
	"time"
)

// AccountRepository はアカウントの永続化を行うインターフェースです。
type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// RevocationStore はサインアウト済みトークンの ID を有効期限まで保持します。
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
