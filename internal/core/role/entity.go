package role

import "time"

// Type はロールの区分です。ダッシュボードでコーディネーターとチームメンバーを分けるのに使います。
type Type string

const (
	TypeCoordinator Type = "coordinator"
	TypeRegular     Type = "regular"
)

// Role はロールエンティティです。
type Role struct {
	ID          string
	Name        string
	Description *string
	Type        Type
	CreatedAt   time.Time
}

// IsCoordinator はロールがコーディネーター区分かを返します。
func (r *Role) IsCoordinator() bool {
	return r != nil && r.Type == TypeCoordinator
}

// IsValidType は区分が定義済みの値かを返します。
func IsValidType(t Type) bool {
	switch t {
	case TypeCoordinator, TypeRegular:
		return true
	default:
		return false
	}
}
