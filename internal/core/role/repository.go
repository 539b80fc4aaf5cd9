package role

import "context"

// Repository はロール永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, role *Role) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
}
