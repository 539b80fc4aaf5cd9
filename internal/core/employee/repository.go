package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, string, error)
}

// ListEmployeesFilter は一覧取得用フィルタです。
// Project が指定された場合は、コードまたは名前が一致するプロジェクトにアサインされている社員に絞り込みます。
// 大文字小文字は区別しません。
type ListEmployeesFilter struct {
	Statuses []Status
	Project  string
	Limit    int
	Offset   int
}
