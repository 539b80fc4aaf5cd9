package history

import (
	"context"
	"time"
)

// Repository は変更履歴の永続化を行うインターフェースです。更新・削除は提供しません。
type Repository interface {
	Append(ctx context.Context, entry *Entry) (*Entry, error)
	List(ctx context.Context, filter ListFilter) ([]*Entry, string, error)
}

// ListFilter は一覧取得時の検索条件です。From/To は半開区間 [From, To) です。
type ListFilter struct {
	TableName *TableName
	From      *time.Time
	To        *time.Time
	CreatedBy string
	Limit     int
	Offset    int
}
