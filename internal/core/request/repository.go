package request

import (
	"context"
	"time"
)

// Repository はリソース依頼の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, r *ResourceRequest) (*ResourceRequest, error)
	FindByID(ctx context.Context, id string) (*ResourceRequest, error)
	ListActive(ctx context.Context, filter ActiveFilter) ([]*ResourceRequest, string, error)
	// ResolvePending は状態が Pending の場合に限り status を更新します。
	// 該当行がない場合は ErrNotPending を返します。
	ResolvePending(ctx context.Context, id string, decision Status) (*ResourceRequest, error)
}

// ActiveFilter は既定の依頼一覧の検索条件です。
// 承認済み以外、または ApprovedSince 以降に作成された承認済みの依頼が対象です。
type ActiveFilter struct {
	ApprovedSince time.Time
	ProjectID     string
	Limit         int
	Offset        int
}
